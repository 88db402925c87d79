package models

import "gorm.io/gorm"

// SubmissionLanguage maps a language onto the grading fleet queue that can
// judge it. Disabled languages are never dispatched.
type SubmissionLanguage struct {
	gorm.Model
	Name       string `json:"Name"`
	Version    string `json:"Version"`
	QueueName  string `json:"QueueName"`
	IsDisabled bool   `json:"IsDisabled"`
}
