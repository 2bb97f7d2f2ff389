package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type BuildingCategory string

const (
	BuildingAcademic  BuildingCategory = "academic"
	BuildingDining    BuildingCategory = "dining"
	BuildingResidence BuildingCategory = "residence"
	BuildingLibrary   BuildingCategory = "library"
	BuildingAthletics BuildingCategory = "athletics"
	BuildingOther     BuildingCategory = "other"
)

type Building struct {
	ID          bson.ObjectID    `bson:"_id,omitempty" json:"id"`
	Name        string           `bson:"name" json:"name"`
	Slug        string           `bson:"slug" json:"slug"`
	Category    BuildingCategory `bson:"category" json:"category"`
	Description string           `bson:"description,omitempty" json:"description,omitempty"`
	Latitude    float64          `bson:"latitude" json:"latitude"`
	Longitude   float64          `bson:"longitude" json:"longitude"`
	ImageURLs   []string         `bson:"imageUrls,omitempty" json:"imageUrls,omitempty"`
	CreatedAt   time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time        `bson:"updatedAt" json:"updatedAt"`
}
