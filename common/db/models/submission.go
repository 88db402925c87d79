package models

import (
	"time"

	"gorm.io/gorm"
)

// Submission is immutable once created; judging outcomes live in Judgment
// rows referencing it.
type Submission struct {
	gorm.Model
	AccountID  uint `json:"AccountID" gorm:"index"`
	ProblemID  uint `json:"ProblemID" gorm:"index"`
	LanguageID uint `json:"LanguageID"`

	ContentFile   string    `json:"ContentFile"`
	ContentLength uint64    `json:"ContentLength"`
	Filename      string    `json:"Filename"`
	SubmitTime    time.Time `json:"SubmitTime" gorm:"index"`
}
