package models

import "gorm.io/gorm"

// Team groups class members; scoreboards select teams by Label.
type Team struct {
	gorm.Model
	ClassID uint   `json:"ClassID" gorm:"index"`
	Name    string `json:"Name"`
	Label   string `json:"Label"`
}

type TeamMember struct {
	gorm.Model
	TeamID   uint `json:"TeamID" gorm:"index"`
	MemberID uint `json:"MemberID"`
}
