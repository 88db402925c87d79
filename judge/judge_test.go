package judge

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/wsa-2002/pd6-be-sub001/common/connectors/brokerconn"
	"github.com/wsa-2002/pd6-be-sub001/common/constants/priority"
	"github.com/wsa-2002/pd6-be-sub001/common/db"
	"github.com/wsa-2002/pd6-be-sub001/common/db/models"
)

func fixtureDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.Nil(t, err)
	require.Nil(t, db.Migrate(gdb))
	return gdb
}

// fakeSigner signs deterministically so tests can assert on urls.
type fakeSigner struct {
	signed int
}

func (s *fakeSigner) SignURL(bucket, key, filename string, ttl time.Duration) (string, error) {
	s.signed++
	return fmt.Sprintf("signed://%s/%s?ttl=%s", bucket, key, ttl), nil
}

type publishedMessage struct {
	QueueName string
	Priority  priority.Priority
	Body      []byte
}

// fakeBroker records publishes and replays queued bodies on Consume.
type fakeBroker struct {
	published []publishedMessage
	inbox     [][]byte

	handlerErrs []error
}

func (b *fakeBroker) Publish(_ context.Context, queueName string, prio priority.Priority, body []byte) error {
	b.published = append(b.published, publishedMessage{QueueName: queueName, Priority: prio, Body: body})
	return nil
}

func (b *fakeBroker) Consume(ctx context.Context, _ string, handler brokerconn.Handler) error {
	for _, body := range b.inbox {
		b.handlerErrs = append(b.handlerErrs, handler(ctx, body))
	}
	return nil
}

func fixtureLanguage(t *testing.T, gdb *gorm.DB, queueName string, disabled bool) *models.SubmissionLanguage {
	t.Helper()
	language := &models.SubmissionLanguage{
		Name:       "python",
		Version:    "3.11",
		QueueName:  queueName,
		IsDisabled: disabled,
	}
	require.Nil(t, gdb.Create(language).Error)
	return language
}

func fixtureProblem(t *testing.T, gdb *gorm.DB, testcases int) *models.Problem {
	t.Helper()
	problem := &models.Problem{Label: "A", Title: "two sum", FullScore: 100}
	require.Nil(t, gdb.Create(problem).Error)
	for i := range testcases {
		testcase := &models.Testcase{
			ProblemID:  problem.ID,
			Score:      float64(100 / testcases),
			InputFile:  fmt.Sprintf("p%d/in%d", problem.ID, i+1),
			OutputFile: fmt.Sprintf("p%d/out%d", problem.ID, i+1),
		}
		require.Nil(t, testcase.TimeLimit.FromStr("1s"))
		require.Nil(t, testcase.MemoryLimit.FromStr("256m"))
		require.Nil(t, gdb.Create(testcase).Error)
	}
	return problem
}

func fixtureSubmission(t *testing.T, gdb *gorm.DB, problemID, languageID uint, submitTime time.Time) *models.Submission {
	t.Helper()
	submission := &models.Submission{
		AccountID:     1,
		ProblemID:     problemID,
		LanguageID:    languageID,
		ContentFile:   fmt.Sprintf("content-%d", submitTime.UnixNano()),
		ContentLength: 42,
		Filename:      "main.py",
		SubmitTime:    submitTime,
	}
	require.Nil(t, gdb.Create(submission).Error)
	return submission
}
