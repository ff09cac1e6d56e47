package model

import "github.com/google/uuid"

type City struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"size:128;not null"`
	Slug string    `gorm:"size:64;index"`
}

type Company struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"size:255;not null"`
}

type Subsidiary struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null"`
	CityID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Address   string    `gorm:"size:255"`
}
