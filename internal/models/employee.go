package models

import "time"

// Employee is shop staff that can be assigned to repairs.
type Employee struct {
	ID         int64     `bson:"_id" json:"id"`
	LastName   string    `bson:"last_name" json:"last_name"`
	FirstName  string    `bson:"first_name" json:"first_name"`
	MiddleName string    `bson:"middle_name,omitempty" json:"middle_name,omitempty"`
	BirthDate  time.Time `bson:"birth_date" json:"birth_date"`
	Address    string    `bson:"address" json:"address"`
	Phone      string    `bson:"phone" json:"phone"` // unique across employees
	Position   string    `bson:"position" json:"position"`
	Salary     float64   `bson:"salary" json:"salary"`
	Experience int       `bson:"experience" json:"experience"` // years
	Schedule   string    `bson:"schedule" json:"schedule"`     // "5/2", "2/2", ...
	Bonus      *float64  `bson:"bonus,omitempty" json:"bonus,omitempty"`
}

func (e Employee) Key() int64 { return e.ID }

func (e Employee) WithKey(id int64) Employee {
	e.ID = id
	return e
}
