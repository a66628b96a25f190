package models

import "time"

// CompletedWork is the history snapshot written when a repair is completed.
type CompletedWork struct {
	ID             int64     `bson:"_id" json:"id"`
	CarID          int64     `bson:"car_id" json:"car_id"`
	RepairID       int64     `bson:"repair_id" json:"repair_id"`
	TotalCost      float64   `bson:"total_cost" json:"total_cost"`
	CompletionDate time.Time `bson:"completion_date" json:"completion_date"`
	Description    string    `bson:"description" json:"description"`
}

func (w CompletedWork) Key() int64 { return w.ID }

func (w CompletedWork) WithKey(id int64) CompletedWork {
	w.ID = id
	return w
}
