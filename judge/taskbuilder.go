package judge

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wsa-2002/pd6-be-sub001/common/connectors/storageconn"
	"github.com/wsa-2002/pd6-be-sub001/common/db/models"
)

// Object store buckets. The storage service owns the layout, these names
// are part of its contract.
const (
	BucketProblem    = "problem"
	BucketSubmission = "submission"
)

// ProblemBundle is everything problem-side a judge task needs: testcases,
// assisting data and judge/reviser code, each with a fresh signed url.
// A bundle is throwaway: its urls expire, so it must not be cached.
type ProblemBundle struct {
	Problem       ProblemSnapshot
	Testcases     []TestcaseSnapshot
	AssistingData []AssistingDataSnapshot
	JudgeCode     *CodeSnapshot
	ReviserCode   *CodeSnapshot
}

type TaskBuilder struct {
	db      *gorm.DB
	signer  storageconn.URLSigner
	signTTL time.Duration
}

func NewTaskBuilder(db *gorm.DB, signer storageconn.URLSigner, signTTL time.Duration) *TaskBuilder {
	return &TaskBuilder{
		db:      db,
		signer:  signer,
		signTTL: signTTL,
	}
}

// Prepare assembles the problem side of a judge task. A missing problem
// surfaces as gorm.ErrRecordNotFound.
func (b *TaskBuilder) Prepare(problemID uint) (*ProblemBundle, error) {
	problem := new(models.Problem)
	if err := b.db.First(problem, problemID).Error; err != nil {
		return nil, err
	}

	bundle := &ProblemBundle{
		Problem: ProblemSnapshot{
			ProblemID:   problem.ID,
			FullScore:   problem.FullScore,
			IsLazyJudge: problem.IsLazyJudge,
		},
	}

	// Stable testcase order keeps judge case indices reproducible across
	// rejudges.
	var testcases []models.Testcase
	err := b.db.
		Where("problem_id = ? AND is_disabled = ?", problemID, false).
		Order("id").
		Find(&testcases).Error
	if err != nil {
		return nil, err
	}
	for _, testcase := range testcases {
		inputURL, err := b.signer.SignURL(BucketProblem, testcase.InputFile, "", b.signTTL)
		if err != nil {
			return nil, err
		}
		outputURL, err := b.signer.SignURL(BucketProblem, testcase.OutputFile, "", b.signTTL)
		if err != nil {
			return nil, err
		}
		bundle.Testcases = append(bundle.Testcases, TestcaseSnapshot{
			TestcaseID:  testcase.ID,
			Score:       testcase.Score,
			TimeLimit:   testcase.TimeLimit,
			MemoryLimit: testcase.MemoryLimit,
			InputURL:    inputURL,
			OutputURL:   outputURL,
			IsSample:    testcase.IsSample,
		})
	}

	var assistingData []models.AssistingData
	if err := b.db.Where("problem_id = ?", problemID).Order("id").Find(&assistingData).Error; err != nil {
		return nil, err
	}
	for _, data := range assistingData {
		url, err := b.signer.SignURL(BucketProblem, data.File, data.Filename, b.signTTL)
		if err != nil {
			return nil, err
		}
		bundle.AssistingData = append(bundle.AssistingData, AssistingDataSnapshot{
			Filename: data.Filename,
			URL:      url,
		})
	}

	if problem.JudgeCodeFile != nil {
		url, err := b.signer.SignURL(BucketProblem, *problem.JudgeCodeFile, "", b.signTTL)
		if err != nil {
			return nil, err
		}
		bundle.JudgeCode = &CodeSnapshot{URL: url}
	}
	if problem.ReviserCodeFile != nil {
		url, err := b.signer.SignURL(BucketProblem, *problem.ReviserCodeFile, "", b.signTTL)
		if err != nil {
			return nil, err
		}
		bundle.ReviserCode = &CodeSnapshot{URL: url}
	}

	return bundle, nil
}

// BuildTask snapshots one submission against a prepared bundle.
func (b *TaskBuilder) BuildTask(
	submission *models.Submission,
	language *models.SubmissionLanguage,
	bundle *ProblemBundle,
) (*Task, error) {
	taskUUID, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	contentURL, err := b.signer.SignURL(BucketSubmission, submission.ContentFile, submission.Filename, b.signTTL)
	if err != nil {
		return nil, err
	}

	return &Task{
		ID:      taskUUID.String(),
		Problem: bundle.Problem,
		Submission: SubmissionSnapshot{
			SubmissionID:    submission.ID,
			ContentURL:      contentURL,
			Filename:        submission.Filename,
			LanguageName:    language.Name,
			LanguageVersion: language.Version,
		},
		Testcases:     bundle.Testcases,
		AssistingData: bundle.AssistingData,
		JudgeCode:     bundle.JudgeCode,
		ReviserCode:   bundle.ReviserCode,
	}, nil
}
