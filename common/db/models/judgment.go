package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/wsa-2002/pd6-be-sub001/common/constants/verdict"
	"github.com/wsa-2002/pd6-be-sub001/lib/customfields"
)

// Judgment is one grading outcome for a submission. Rows are append only:
// every (re)judge report inserts a new Judgment, and the latest one is
// picked by JudgeTime ordering.
type Judgment struct {
	gorm.Model
	SubmissionID uint `json:"SubmissionID" gorm:"index"`

	Verdict   verdict.Verdict     `json:"Verdict"`
	TotalTime customfields.Time   `json:"TotalTime"`
	MaxMemory customfields.Memory `json:"MaxMemory"`
	Score     float64             `json:"Score"`
	JudgeTime time.Time           `json:"JudgeTime" gorm:"index"`

	JudgeCases []JudgeCase `json:"JudgeCases,omitempty"`
}

// JudgeCase is the per-testcase result of one Judgment, created in a batch
// when the grading report arrives and never mutated afterwards.
type JudgeCase struct {
	gorm.Model
	JudgmentID uint `json:"JudgmentID" gorm:"index"`
	TestcaseID uint `json:"TestcaseID"`

	Verdict    verdict.Verdict     `json:"Verdict"`
	Score      float64             `json:"Score"`
	TimeLapse  customfields.Time   `json:"TimeLapse"`
	PeakMemory customfields.Memory `json:"PeakMemory"`
}
