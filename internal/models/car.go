package models

import "time"

// Car is a vehicle identified by its plate number.
type Car struct {
	ID          int64     `bson:"_id" json:"id"`
	Number      string    `bson:"number" json:"number"` // plate, unique
	Brand       string    `bson:"brand" json:"brand"`
	ReleaseDate time.Time `bson:"release_date" json:"release_date"`
	OwnerID     int64     `bson:"owner_id" json:"owner_id"`
}

func (c Car) Key() int64 { return c.ID }

func (c Car) WithKey(id int64) Car {
	c.ID = id
	return c
}
