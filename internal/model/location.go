package model

import "time"

type Location struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex;size:255" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (Location) TableName() string {
	return "locations"
}
