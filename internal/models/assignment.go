package models

import "time"

// Assignment links an employee to a repair. Neither side owns the other;
// the (RepairID, EmployeeID) pair is unique.
type Assignment struct {
	ID           int64     `bson:"_id" json:"id"`
	RepairID     int64     `bson:"repair_id" json:"repair_id"`
	EmployeeID   int64     `bson:"employee_id" json:"employee_id"`
	AssignedDate time.Time `bson:"assigned_date" json:"assigned_date"`
}

func (a Assignment) Key() int64 { return a.ID }

func (a Assignment) WithKey(id int64) Assignment {
	a.ID = id
	return a
}
