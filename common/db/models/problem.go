package models

import (
	"gorm.io/gorm"

	"github.com/wsa-2002/pd6-be-sub001/lib/customfields"
)

type Problem struct {
	gorm.Model
	ChallengeID uint    `json:"ChallengeID"`
	Label       string  `json:"Label"`
	Title       string  `json:"Title"`
	FullScore   float64 `json:"FullScore"`
	IsLazyJudge bool    `json:"IsLazyJudge"`

	// Optional customized judge / reviser code, stored in the object store.
	JudgeCodeFile   *string `json:"JudgeCodeFile,omitempty"`
	ReviserCodeFile *string `json:"ReviserCodeFile,omitempty"`
}

type Testcase struct {
	gorm.Model
	ProblemID uint `json:"ProblemID"`

	Score       float64             `json:"Score"`
	TimeLimit   customfields.Time   `json:"TimeLimit"`
	MemoryLimit customfields.Memory `json:"MemoryLimit"`

	InputFile  string `json:"InputFile"`
	OutputFile string `json:"OutputFile"`

	IsSample   bool   `json:"IsSample"`
	IsDisabled bool   `json:"IsDisabled"`
	Note       string `json:"Note,omitempty"`
}

// AssistingData is an extra file handed to the grading fleet along with a
// problem, e.g. a data set the submitted code reads.
type AssistingData struct {
	gorm.Model
	ProblemID uint   `json:"ProblemID"`
	File      string `json:"File"`
	Filename  string `json:"Filename"`
}
