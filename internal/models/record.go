package models

// Record is implemented by every entity stored in a db.Table. Ids are
// assigned by the store, so WithKey returns a copy carrying the new id.
type Record[T any] interface {
	Key() int64
	WithKey(id int64) T
}
