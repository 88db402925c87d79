package judge

import (
	"github.com/wsa-2002/pd6-be-sub001/lib/customfields"
)

// Task is the self-contained message handed to the grading fleet. All file
// references are pre-signed, time limited urls, so a task is built fresh
// for every dispatch and never reused across submissions.
type Task struct {
	ID string `json:"ID"`

	Problem    ProblemSnapshot    `json:"Problem"`
	Submission SubmissionSnapshot `json:"Submission"`

	Testcases     []TestcaseSnapshot      `json:"Testcases"`
	AssistingData []AssistingDataSnapshot `json:"AssistingData,omitempty"`

	JudgeCode   *CodeSnapshot `json:"JudgeCode,omitempty"`
	ReviserCode *CodeSnapshot `json:"ReviserCode,omitempty"`
}

type ProblemSnapshot struct {
	ProblemID   uint    `json:"ProblemID"`
	FullScore   float64 `json:"FullScore"`
	IsLazyJudge bool    `json:"IsLazyJudge"`
}

type SubmissionSnapshot struct {
	SubmissionID    uint   `json:"SubmissionID"`
	ContentURL      string `json:"ContentURL"`
	Filename        string `json:"Filename"`
	LanguageName    string `json:"LanguageName"`
	LanguageVersion string `json:"LanguageVersion"`
}

type TestcaseSnapshot struct {
	TestcaseID  uint                `json:"TestcaseID"`
	Score       float64             `json:"Score"`
	TimeLimit   customfields.Time   `json:"TimeLimit"`
	MemoryLimit customfields.Memory `json:"MemoryLimit"`
	InputURL    string              `json:"InputURL"`
	OutputURL   string              `json:"OutputURL"`
	IsSample    bool                `json:"IsSample"`
}

type AssistingDataSnapshot struct {
	Filename string `json:"Filename"`
	URL      string `json:"URL"`
}

type CodeSnapshot struct {
	URL string `json:"URL"`
}
