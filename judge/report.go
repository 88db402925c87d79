package judge

import (
	"github.com/wsa-2002/pd6-be-sub001/common/constants/verdict"
	"github.com/wsa-2002/pd6-be-sub001/lib/customfields"
)

// Report is what the grading fleet publishes back after judging one task.
type Report struct {
	SubmissionID uint `json:"SubmissionID"`

	Verdict   verdict.Verdict     `json:"Verdict"`
	TotalTime customfields.Time   `json:"TotalTime"`
	MaxMemory customfields.Memory `json:"MaxMemory"`
	Score     float64             `json:"Score"`

	Cases []CaseReport `json:"Cases"`
}

type CaseReport struct {
	TestcaseID uint `json:"TestcaseID"`

	Verdict    verdict.Verdict     `json:"Verdict"`
	Score      float64             `json:"Score"`
	TimeLapse  customfields.Time   `json:"TimeLapse"`
	PeakMemory customfields.Memory `json:"PeakMemory"`
}
