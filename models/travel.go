package models

import "time"

// Plan is a purchasable travel package.
type Plan struct {
	PlanID      string    `json:"planid" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Price       float64   `json:"price" bson:"price"`
	Currency    string    `json:"currency" bson:"currency"`
	Days        int       `json:"days" bson:"days"`
	Locations   []string  `json:"locations,omitempty" bson:"locations,omitempty"`
	Image       string    `json:"image,omitempty" bson:"image,omitempty"`
	CreatedBy   string    `json:"created_by" bson:"created_by"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

type Place struct {
	PlaceID     string    `json:"placeid" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Location    string    `json:"location" bson:"location"`
	Tags        []string  `json:"tags,omitempty" bson:"tags,omitempty"`
	Banner      string    `json:"banner,omitempty" bson:"banner,omitempty"`
	CreatedBy   string    `json:"created_by" bson:"created_by"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// Review is a user's rating of a plan. Likes is a set of user ids; the like
// count reported anywhere is always len(Likes).
type Review struct {
	ReviewID  string    `json:"reviewid" bson:"_id"`
	UserID    string    `json:"uid" bson:"uid"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	PlanID    string    `json:"planId" bson:"planId"`
	Review    string    `json:"review" bson:"review"`
	Rating    int       `json:"rating" bson:"rating"`
	Image     string    `json:"image,omitempty" bson:"image,omitempty"`
	Likes     []string  `json:"likes" bson:"likes"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
