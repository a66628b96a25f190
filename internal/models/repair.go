package models

import "time"

// Repair is a unit of work addressing one service request. A nil
// CompletionDate means the repair is still active.
type Repair struct {
	ID             int64      `bson:"_id" json:"id"`
	RequestID      int64      `bson:"request_id" json:"request_id"`
	Description    string     `bson:"description" json:"description"`
	CompletionDate *time.Time `bson:"completion_date" json:"completion_date"`
	Cost           float64    `bson:"cost" json:"cost"` // labour, parts excluded
}

func (r Repair) Key() int64 { return r.ID }

func (r Repair) WithKey(id int64) Repair {
	r.ID = id
	return r
}

// Completed reports whether the repair has left the active state.
func (r Repair) Completed() bool {
	return r.CompletionDate != nil
}
