package models

// Owner is a customer who owns one or more cars.
type Owner struct {
	ID         int64  `bson:"_id" json:"id"`
	LastName   string `bson:"last_name" json:"last_name"`
	FirstName  string `bson:"first_name" json:"first_name"`
	MiddleName string `bson:"middle_name,omitempty" json:"middle_name,omitempty"`
	Phone      string `bson:"phone" json:"phone"` // unique across owners
}

func (o Owner) Key() int64 { return o.ID }

func (o Owner) WithKey(id int64) Owner {
	o.ID = id
	return o
}
