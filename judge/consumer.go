package judge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wsa-2002/pd6-be-sub001/common/connectors/brokerconn"
	"github.com/wsa-2002/pd6-be-sub001/common/metrics"
	"github.com/wsa-2002/pd6-be-sub001/lib/logger"
)

// Consumer is the long-lived loop that drains the grading fleet's report
// queue and persists each report as a judgment. Failures are isolated per
// message: a report that can not be processed is dropped (nacked without
// requeue by the broker connector) and recovery is an operator rejudge.
type Consumer struct {
	store     *Store
	broker    brokerconn.Broker
	queueName string
	collector *metrics.Collector
}

func NewConsumer(store *Store, broker brokerconn.Broker, queueName string, collector *metrics.Collector) *Consumer {
	return &Consumer{
		store:     store,
		broker:    broker,
		queueName: queueName,
		collector: collector,
	}
}

// Run blocks until ctx is cancelled. It is meant to be registered as a
// platform process.
func (c *Consumer) Run(ctx context.Context) {
	logger.Info("starting report consumer on queue %s", c.queueName)
	if err := c.broker.Consume(ctx, c.queueName, c.handleReport); err != nil {
		logger.Panic("report consumer on queue %s failed: %v", c.queueName, err)
	}
	logger.Info("stopping report consumer on queue %s", c.queueName)
}

func (c *Consumer) handleReport(_ context.Context, body []byte) error {
	report := new(Report)
	if err := json.Unmarshal(body, report); err != nil {
		c.reportDropped()
		return fmt.Errorf("can not parse grading report: %w", err)
	}

	judgmentID, err := c.store.Save(report)
	if err != nil {
		c.reportDropped()
		return fmt.Errorf("can not save grading report for submission %d: %w", report.SubmissionID, err)
	}

	logger.Trace("saved judgment %d for submission %d", judgmentID, report.SubmissionID)
	if c.collector != nil {
		c.collector.ReportConsumed(report.Verdict)
	}
	return nil
}

func (c *Consumer) reportDropped() {
	if c.collector != nil {
		c.collector.ReportDropped(c.queueName)
	}
}
