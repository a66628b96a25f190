package models

import "time"

// ServiceRequest is an issue reported by a customer for one car.
type ServiceRequest struct {
	ID          int64     `bson:"_id" json:"id"`
	CarID       int64     `bson:"car_id" json:"car_id"`
	RequestDate time.Time `bson:"request_date" json:"request_date"`
	Issues      string    `bson:"issues" json:"issues"`
}

func (r ServiceRequest) Key() int64 { return r.ID }

func (r ServiceRequest) WithKey(id int64) ServiceRequest {
	r.ID = id
	return r
}
