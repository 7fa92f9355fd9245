package store

import (
	"time"

	"gorm.io/datatypes"
)

// Session is a named viewpoint list together with the fly-through parameters it was saved with.
type Session struct {
	ID         uint `gorm:"primarykey"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Name       string         `gorm:"uniqueIndex;size:128;not null"`
	Parameters datatypes.JSON `json:"parameters"`
	Viewpoints []Viewpoint    `gorm:"constraint:OnDelete:CASCADE"`
}

// Viewpoint is one saved pose. Position keeps the list order.
type Viewpoint struct {
	ID         uint   `gorm:"primarykey"`
	SessionID  uint   `gorm:"index;not null"`
	Position   int    `gorm:"not null"`
	UUID       string `gorm:"column:uuid;size:36"`
	Name       string `gorm:"size:256"`
	LocationX  float64
	LocationY  float64
	LocationZ  float64
	DirectionX float64
	DirectionY float64
	DirectionZ float64
	MagIndex   int
	Mode       string `gorm:"size:16"`
	Near       float64
	Far        float64
}

// models is the migration set.
var models = []any{&Session{}, &Viewpoint{}}
