package db

import (
	"context"
	"errors"
	"iter"

	"github.com/ukydev/autoservice/internal/models"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique key.
	ErrDuplicate = errors.New("duplicate key")
	// ErrConflict is returned when a transaction could not commit because of
	// concurrent writers.
	ErrConflict = errors.New("transaction conflict")
)

// Collection names.
const (
	TableOwners         = "owners"
	TableCars           = "cars"
	TableRequests       = "service_requests"
	TableRepairs        = "repairs"
	TableParts          = "spare_parts"
	TableEmployees      = "employees"
	TableCompletedWorks = "completed_works"
	TableAssignments    = "repair_employees"
	TableUsers          = "users"
)

// uniqueKeys lists the unique field sets of each collection. Both backends
// enforce them.
var uniqueKeys = map[string][][]string{
	TableOwners:      {{"phone"}},
	TableCars:        {{"number"}},
	TableEmployees:   {{"phone"}},
	TableAssignments: {{"repair_id", "employee_id"}},
	TableUsers:       {{"username"}, {"email"}},
}

// lookupKeys are the non-unique fields the shop filters on.
var lookupKeys = map[string][]string{
	TableCars:           {"owner_id"},
	TableRequests:       {"car_id", "request_date"},
	TableRepairs:        {"request_id"},
	TableParts:          {"repair_id"},
	TableCompletedWorks: {"car_id", "repair_id", "completion_date"},
	TableAssignments:    {"employee_id"},
}

// Op is a filter operator.
type Op int

const (
	OpEq Op = iota
	OpLt
	OpIsNull
	OpNotNull
)

// Cond is a single filter on a stored (bson) field name.
type Cond struct {
	Field string
	Op    Op
	Value any
}

func Eq(field string, value any) Cond { return Cond{Field: field, Op: OpEq, Value: value} }
func Lt(field string, value any) Cond { return Cond{Field: field, Op: OpLt, Value: value} }
func IsNull(field string) Cond        { return Cond{Field: field, Op: OpIsNull} }
func NotNull(field string) Cond       { return Cond{Field: field, Op: OpNotNull} }

// SortKey orders query results by one field.
type SortKey struct {
	Field string
	Desc  bool
}

// Query selects records. Without sort keys the order is unspecified.
type Query struct {
	Where  []Cond
	Sort   []SortKey
	Limit  int64
	Offset int64
}

// Where starts a query with the given filters.
func Where(conds ...Cond) Query {
	return Query{Where: conds}
}

// OrderBy appends an ascending sort key.
func (q Query) OrderBy(field string) Query {
	q.Sort = append(q.Sort, SortKey{Field: field})
	return q
}

// OrderByDesc appends a descending sort key.
func (q Query) OrderByDesc(field string) Query {
	q.Sort = append(q.Sort, SortKey{Field: field, Desc: true})
	return q
}

// Page restricts the result window. Zero limit means no limit.
func (q Query) Page(limit, offset int64) Query {
	q.Limit = limit
	q.Offset = offset
	return q
}

// Table is the storage contract for one record type.
type Table[T models.Record[T]] interface {
	// Insert assigns a new id and stores rec.
	Insert(ctx context.Context, rec T) (T, error)
	Get(ctx context.Context, id int64) (T, error)
	// Update replaces the record with rec's id.
	Update(ctx context.Context, rec T) error
	Delete(ctx context.Context, id int64) error
	DeleteWhere(ctx context.Context, conds ...Cond) (int64, error)
	Count(ctx context.Context, conds ...Cond) (int64, error)
	// Scan lazily yields the records matching q.
	Scan(ctx context.Context, q Query) iter.Seq2[T, error]
}

// Tx gives access to every table inside one unit of work.
type Tx interface {
	Owners() Table[models.Owner]
	Cars() Table[models.Car]
	Requests() Table[models.ServiceRequest]
	Repairs() Table[models.Repair]
	Parts() Table[models.SparePart]
	Employees() Table[models.Employee]
	CompletedWorks() Table[models.CompletedWork]
	Assignments() Table[models.Assignment]
	Users() Table[models.User]
}

// Store runs units of work. RunInTransaction commits only when fn returns
// nil; fn must use the ctx it is given for every table call.
type Store interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	View(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Close(ctx context.Context) error
}

// Find collects every record matching q.
func Find[T models.Record[T]](ctx context.Context, t Table[T], q Query) ([]T, error) {
	var out []T
	for rec, err := range t.Scan(ctx, q) {
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// FindOne returns the first record matching conds, or ErrNotFound.
func FindOne[T models.Record[T]](ctx context.Context, t Table[T], conds ...Cond) (T, error) {
	for rec, err := range t.Scan(ctx, Query{Where: conds, Limit: 1}) {
		return rec, err
	}
	var zero T
	return zero, ErrNotFound
}
