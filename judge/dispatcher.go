package judge

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/wsa-2002/pd6-be-sub001/common/connectors/brokerconn"
	"github.com/wsa-2002/pd6-be-sub001/common/constants/priority"
	"github.com/wsa-2002/pd6-be-sub001/common/db/models"
	"github.com/wsa-2002/pd6-be-sub001/common/metrics"
	"github.com/wsa-2002/pd6-be-sub001/lib/logger"
)

// Dispatcher packages submissions into judge tasks and hands them to the
// grading fleet through the per-language queues. It only ever blocks on the
// publish call; grading completion arrives asynchronously via the report
// consumer.
type Dispatcher struct {
	db        *gorm.DB
	builder   *TaskBuilder
	broker    brokerconn.Broker
	collector *metrics.Collector

	rejudgeBatchSize int
}

func NewDispatcher(
	db *gorm.DB,
	builder *TaskBuilder,
	broker brokerconn.Broker,
	collector *metrics.Collector,
	rejudgeBatchSize int,
) *Dispatcher {
	return &Dispatcher{
		db:               db,
		builder:          builder,
		broker:           broker,
		collector:        collector,
		rejudgeBatchSize: rejudgeBatchSize,
	}
}

// Submit dispatches a fresh submission at interactive priority.
func (d *Dispatcher) Submit(ctx context.Context, submissionID uint) error {
	return d.dispatchByID(ctx, submissionID, priority.Submit)
}

// RejudgeSubmission re-dispatches one already judged submission. Its tasks
// queue behind live submits.
func (d *Dispatcher) RejudgeSubmission(ctx context.Context, submissionID uint) error {
	return d.dispatchByID(ctx, submissionID, priority.RejudgeSingle)
}

func (d *Dispatcher) dispatchByID(ctx context.Context, submissionID uint, prio priority.Priority) error {
	submission := new(models.Submission)
	if err := d.db.First(submission, submissionID).Error; err != nil {
		return err
	}
	return d.dispatch(ctx, submission, prio)
}

// RejudgeProblem re-dispatches every submission of a problem at the lowest
// priority. Submissions are paged through in fixed-size batches so a large
// class never pulls the whole submission set into memory.
func (d *Dispatcher) RejudgeProblem(ctx context.Context, problemID uint) error {
	if err := d.db.First(new(models.Problem), problemID).Error; err != nil {
		return err
	}

	lastID := uint(0)
	for {
		var batch []models.Submission
		err := d.db.
			Where("problem_id = ? AND id > ?", problemID, lastID).
			Order("id").
			Limit(d.rejudgeBatchSize).
			Find(&batch).Error
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		for i := range batch {
			if err := d.dispatch(ctx, &batch[i], priority.RejudgeBatch); err != nil {
				return err
			}
		}
		lastID = batch[len(batch)-1].ID
	}
}

// dispatch builds and publishes one task. A disabled language is a quiet
// drop, not an error: disabling a language mid-flight must not crash a
// historical rejudge sweep.
func (d *Dispatcher) dispatch(ctx context.Context, submission *models.Submission, prio priority.Priority) error {
	language := new(models.SubmissionLanguage)
	if err := d.db.First(language, submission.LanguageID).Error; err != nil {
		return err
	}
	if language.IsDisabled {
		logger.Info(
			"skipping submission %d: language %s %s is disabled",
			submission.ID, language.Name, language.Version,
		)
		if d.collector != nil {
			d.collector.DisabledLanguageSkips.Inc()
		}
		return nil
	}

	bundle, err := d.builder.Prepare(submission.ProblemID)
	if err != nil {
		return err
	}
	task, err := d.builder.BuildTask(submission, language, bundle)
	if err != nil {
		return err
	}

	body, err := json.Marshal(task)
	if err != nil {
		return err
	}
	if err := d.broker.Publish(ctx, language.QueueName, prio, body); err != nil {
		return err
	}

	logger.Trace("dispatched task %s for submission %d at %s priority", task.ID, submission.ID, prio)
	if d.collector != nil {
		d.collector.TaskPublished(language.QueueName, prio)
	}
	return nil
}
