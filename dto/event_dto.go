package dto

import "time"

type CreateEventDTO struct {
	Title       string    `json:"title" binding:"required,min=3"`
	Description string    `json:"description"`
	BuildingID  string    `json:"buildingId"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"startsAt" binding:"required"`
	EndsAt      time.Time `json:"endsAt" binding:"required"`
}

type UpdateEventDTO struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	BuildingID  *string    `json:"buildingId,omitempty"`
	Location    *string    `json:"location,omitempty"`
	StartsAt    *time.Time `json:"startsAt,omitempty"`
	EndsAt      *time.Time `json:"endsAt,omitempty"`
}
