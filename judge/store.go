package judge

import (
	"time"

	"gorm.io/gorm"

	"github.com/wsa-2002/pd6-be-sub001/common/db/models"
)

// Store persists grading reports. Judgments are append only: every report
// inserts a new Judgment with its JudgeCases, nothing is ever overwritten,
// and "latest" is purely a JudgeTime ordering.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:  db,
		now: time.Now,
	}
}

// Save inserts the judgment for one report and returns its id. A report
// referencing an unknown submission is a gorm.ErrRecordNotFound, which the
// consumer treats as unrecoverable for that message.
func (s *Store) Save(report *Report) (uint, error) {
	submission := new(models.Submission)
	if err := s.db.First(submission, report.SubmissionID).Error; err != nil {
		return 0, err
	}

	judgment := &models.Judgment{
		SubmissionID: submission.ID,
		Verdict:      report.Verdict,
		TotalTime:    report.TotalTime,
		MaxMemory:    report.MaxMemory,
		Score:        report.Score,
		JudgeTime:    s.now(),
	}
	for _, caseReport := range report.Cases {
		judgment.JudgeCases = append(judgment.JudgeCases, models.JudgeCase{
			TestcaseID: caseReport.TestcaseID,
			Verdict:    caseReport.Verdict,
			Score:      caseReport.Score,
			TimeLapse:  caseReport.TimeLapse,
			PeakMemory: caseReport.PeakMemory,
		})
	}

	// Judgment and its cases land in one transaction, a report is either
	// fully persisted or not at all.
	if err := s.db.Create(judgment).Error; err != nil {
		return 0, err
	}
	return judgment.ID, nil
}

// ReadLatest returns the most recent judgment of a submission.
func (s *Store) ReadLatest(submissionID uint) (*models.Judgment, error) {
	judgment := new(models.Judgment)
	err := s.db.
		Preload("JudgeCases").
		Where("submission_id = ?", submissionID).
		Order("judge_time DESC, id DESC").
		First(judgment).Error
	if err != nil {
		return nil, err
	}
	return judgment, nil
}

// Browse returns the full judgment history of a submission, newest first.
func (s *Store) Browse(submissionID uint) ([]models.Judgment, error) {
	var judgments []models.Judgment
	err := s.db.
		Preload("JudgeCases").
		Where("submission_id = ?", submissionID).
		Order("judge_time DESC, id DESC").
		Find(&judgments).Error
	if err != nil {
		return nil, err
	}
	return judgments, nil
}
