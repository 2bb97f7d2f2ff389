package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Event struct {
	ID          bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title       string         `bson:"title" json:"title"`
	Slug        string         `bson:"slug" json:"slug"`
	Description string         `bson:"description,omitempty" json:"description,omitempty"`
	BuildingID  *bson.ObjectID `bson:"buildingId,omitempty" json:"buildingId,omitempty"`
	Location    string         `bson:"location,omitempty" json:"location,omitempty"`
	StartsAt    time.Time      `bson:"startsAt" json:"startsAt"`
	EndsAt      time.Time      `bson:"endsAt" json:"endsAt"`
	PosterURL   string         `bson:"posterUrl,omitempty" json:"posterUrl,omitempty"`
	CreatedAt   time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time      `bson:"updatedAt" json:"updatedAt"`
}
