package models

import (
	"time"

	"gorm.io/gorm"
)

type Class struct {
	gorm.Model
	CourseID uint   `json:"CourseID"`
	Name     string `json:"Name"`
}

// Challenge is a timed set of problems inside a class.
type Challenge struct {
	gorm.Model
	ClassID   uint      `json:"ClassID"`
	Title     string    `json:"Title"`
	StartTime time.Time `json:"StartTime"`
	EndTime   time.Time `json:"EndTime"`
}
