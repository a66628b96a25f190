package db

import (
	"context"
	"fmt"
	"iter"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ukydev/autoservice/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps every table in process memory. A transaction works on a
// clone of the state that replaces the live state only when fn succeeds, so
// a failed unit of work leaves nothing behind. Writers are serialized.
type MemoryStore struct {
	mu    sync.RWMutex
	state memoryState
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: newMemoryState()}
}

// RunInTransaction runs fn against a private copy and commits it on success.
func (s *MemoryStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.clone()
	if err := fn(ctx, memoryTx{state: &next}); err != nil {
		return err
	}
	s.state = next
	return nil
}

// View runs fn against a snapshot. Writes made by fn are discarded.
func (s *MemoryStore) View(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()
	return fn(ctx, memoryTx{state: &snapshot})
}

// Close is a no-op.
func (s *MemoryStore) Close(context.Context) error { return nil }

type memoryState struct {
	owners      *memTable[models.Owner]
	cars        *memTable[models.Car]
	requests    *memTable[models.ServiceRequest]
	repairs     *memTable[models.Repair]
	parts       *memTable[models.SparePart]
	employees   *memTable[models.Employee]
	works       *memTable[models.CompletedWork]
	assignments *memTable[models.Assignment]
	users       *memTable[models.User]
}

func newMemoryState() memoryState {
	return memoryState{
		owners:      newMemTable[models.Owner](TableOwners),
		cars:        newMemTable[models.Car](TableCars),
		requests:    newMemTable[models.ServiceRequest](TableRequests),
		repairs:     newMemTable[models.Repair](TableRepairs),
		parts:       newMemTable[models.SparePart](TableParts),
		employees:   newMemTable[models.Employee](TableEmployees),
		works:       newMemTable[models.CompletedWork](TableCompletedWorks),
		assignments: newMemTable[models.Assignment](TableAssignments),
		users:       newMemTable[models.User](TableUsers),
	}
}

func (s memoryState) clone() memoryState {
	return memoryState{
		owners:      s.owners.clone(),
		cars:        s.cars.clone(),
		requests:    s.requests.clone(),
		repairs:     s.repairs.clone(),
		parts:       s.parts.clone(),
		employees:   s.employees.clone(),
		works:       s.works.clone(),
		assignments: s.assignments.clone(),
		users:       s.users.clone(),
	}
}

type memoryTx struct {
	state *memoryState
}

func (t memoryTx) Owners() Table[models.Owner]                 { return t.state.owners }
func (t memoryTx) Cars() Table[models.Car]                     { return t.state.cars }
func (t memoryTx) Requests() Table[models.ServiceRequest]      { return t.state.requests }
func (t memoryTx) Repairs() Table[models.Repair]               { return t.state.repairs }
func (t memoryTx) Parts() Table[models.SparePart]              { return t.state.parts }
func (t memoryTx) Employees() Table[models.Employee]           { return t.state.employees }
func (t memoryTx) CompletedWorks() Table[models.CompletedWork] { return t.state.works }
func (t memoryTx) Assignments() Table[models.Assignment]       { return t.state.assignments }
func (t memoryTx) Users() Table[models.User]                   { return t.state.users }

// memTable keeps records by id alongside their bson form, which filters,
// sorting and unique checks read. Stored docs are never mutated, only
// replaced, so clones can share them.
type memTable[T models.Record[T]] struct {
	name string
	seq  int64
	rows map[int64]T
	docs map[int64]bson.M
}

func newMemTable[T models.Record[T]](name string) *memTable[T] {
	return &memTable[T]{name: name, rows: make(map[int64]T), docs: make(map[int64]bson.M)}
}

func (t *memTable[T]) clone() *memTable[T] {
	c := &memTable[T]{
		name: t.name,
		seq:  t.seq,
		rows: make(map[int64]T, len(t.rows)),
		docs: make(map[int64]bson.M, len(t.docs)),
	}
	for id, rec := range t.rows {
		c.rows[id] = rec
	}
	for id, doc := range t.docs {
		c.docs[id] = doc
	}
	return c
}

func (t *memTable[T]) Insert(_ context.Context, rec T) (T, error) {
	rec = rec.WithKey(t.seq + 1)
	doc, err := toDoc(rec)
	if err != nil {
		return rec, err
	}
	if err := t.checkUnique(rec.Key(), doc); err != nil {
		return rec, err
	}
	t.seq++
	t.rows[rec.Key()] = rec
	t.docs[rec.Key()] = doc
	return rec, nil
}

func (t *memTable[T]) Get(_ context.Context, id int64) (T, error) {
	rec, ok := t.rows[id]
	if !ok {
		return rec, fmt.Errorf("%s %d: %w", t.name, id, ErrNotFound)
	}
	return rec, nil
}

func (t *memTable[T]) Update(_ context.Context, rec T) error {
	if _, ok := t.rows[rec.Key()]; !ok {
		return fmt.Errorf("%s %d: %w", t.name, rec.Key(), ErrNotFound)
	}
	doc, err := toDoc(rec)
	if err != nil {
		return err
	}
	if err := t.checkUnique(rec.Key(), doc); err != nil {
		return err
	}
	t.rows[rec.Key()] = rec
	t.docs[rec.Key()] = doc
	return nil
}

func (t *memTable[T]) Delete(_ context.Context, id int64) error {
	if _, ok := t.rows[id]; !ok {
		return fmt.Errorf("%s %d: %w", t.name, id, ErrNotFound)
	}
	delete(t.rows, id)
	delete(t.docs, id)
	return nil
}

func (t *memTable[T]) DeleteWhere(_ context.Context, conds ...Cond) (int64, error) {
	ids := t.match(conds)
	for _, id := range ids {
		delete(t.rows, id)
		delete(t.docs, id)
	}
	return int64(len(ids)), nil
}

func (t *memTable[T]) Count(_ context.Context, conds ...Cond) (int64, error) {
	return int64(len(t.match(conds))), nil
}

// Scan selects the matching ids up front, so mutating the table while
// ranging does not affect the sequence.
func (t *memTable[T]) Scan(_ context.Context, q Query) iter.Seq2[T, error] {
	ids := t.match(q.Where)
	t.sortIDs(ids, q.Sort)
	ids = window(ids, q.Offset, q.Limit)
	rows := make([]T, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, t.rows[id])
	}
	return func(yield func(T, error) bool) {
		for _, rec := range rows {
			if !yield(rec, nil) {
				return
			}
		}
	}
}

func (t *memTable[T]) checkUnique(id int64, doc bson.M) error {
	for _, fields := range uniqueKeys[t.name] {
		for otherID, other := range t.docs {
			if otherID == id {
				continue
			}
			same := true
			for _, f := range fields {
				if c, ok := compareValues(doc[f], other[f]); !ok || c != 0 {
					same = false
					break
				}
			}
			if same {
				return fmt.Errorf("%s (%s): %w", t.name, strings.Join(fields, ", "), ErrDuplicate)
			}
		}
	}
	return nil
}

// match returns the ids satisfying every cond, in ascending id order.
func (t *memTable[T]) match(conds []Cond) []int64 {
	ids := make([]int64, 0, len(t.docs))
	for id, doc := range t.docs {
		if matchDoc(doc, conds) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (t *memTable[T]) sortIDs(ids []int64, keys []SortKey) {
	if len(keys) == 0 {
		return
	}
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := t.docs[ids[i]], t.docs[ids[j]]
		for _, k := range keys {
			c := orderValues(a[k.Field], b[k.Field])
			if c == 0 {
				continue
			}
			if k.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func window(ids []int64, offset, limit int64) []int64 {
	if offset > 0 {
		if offset >= int64(len(ids)) {
			return nil
		}
		ids = ids[offset:]
	}
	if limit > 0 && limit < int64(len(ids)) {
		ids = ids[:limit]
	}
	return ids
}

func toDoc(rec any) (bson.M, error) {
	raw, err := bson.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return doc, nil
}

func matchDoc(doc bson.M, conds []Cond) bool {
	for _, c := range conds {
		v := doc[c.Field]
		switch c.Op {
		case OpEq:
			if c.Value == nil {
				if v != nil {
					return false
				}
				continue
			}
			if cmp, ok := compareValues(v, c.Value); !ok || cmp != 0 {
				return false
			}
		case OpLt:
			if cmp, ok := compareValues(v, c.Value); !ok || cmp >= 0 {
				return false
			}
		case OpIsNull:
			if v != nil {
				return false
			}
		case OpNotNull:
			if v == nil {
				return false
			}
		}
	}
	return true
}

// normalize maps Go and bson values onto float64, string, bool or
// primitive.DateTime so that both sides of a comparison share a type.
func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case float32:
		return float64(x)
	case time.Time:
		return primitive.NewDateTimeFromTime(x)
	case *time.Time:
		if x == nil {
			return nil
		}
		return primitive.NewDateTimeFromTime(*x)
	case models.Role:
		return string(x)
	}
	return v
}

// compareValues reports the order of a and b and whether they are comparable.
func compareValues(a, b any) (int, bool) {
	a, b = normalize(a), normalize(b)
	switch x := a.(type) {
	case float64:
		if y, ok := b.(float64); ok {
			return cmpOrdered(x, y), true
		}
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), true
		}
	case primitive.DateTime:
		if y, ok := b.(primitive.DateTime); ok {
			return cmpOrdered(x, y), true
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0, true
			case !x:
				return -1, true
			}
			return 1, true
		}
	}
	return 0, false
}

// orderValues sorts nulls first, like MongoDB.
func orderValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	c, _ := compareValues(a, b)
	return c
}

func cmpOrdered[V float64 | primitive.DateTime](a, b V) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
