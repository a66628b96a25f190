package models

import "time"

// SparePart is a priced component consumed by a repair.
type SparePart struct {
	ID            int64     `bson:"_id" json:"id"`
	RepairID      int64     `bson:"repair_id" json:"repair_id"`
	Name          string    `bson:"name" json:"name"`
	Number        string    `bson:"number" json:"number"`
	Cost          float64   `bson:"cost" json:"cost"` // per unit
	Quantity      int       `bson:"quantity" json:"quantity"`
	InstalledDate time.Time `bson:"installed_date" json:"installed_date"`
}

func (p SparePart) Key() int64 { return p.ID }

func (p SparePart) WithKey(id int64) SparePart {
	p.ID = id
	return p
}
