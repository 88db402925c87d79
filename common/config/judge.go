package config

import "time"

type JudgeConfig struct {
	// SignedURLTTL bounds how long the grading fleet has to pick a task up;
	// after it passes the pre-signed file urls in the task are dead.
	SignedURLTTL time.Duration `yaml:"SignedURLTTL"`

	// RejudgeBatchSize is the page size used when sweeping all submissions
	// of one problem. Keeps peak memory bounded on large classes.
	RejudgeBatchSize int `yaml:"RejudgeBatchSize"`
}

func fillInJudgeConfig(config *JudgeConfig) {
	if config.SignedURLTTL == 0 {
		config.SignedURLTTL = 10 * time.Minute
	}
	if config.RejudgeBatchSize == 0 {
		config.RejudgeBatchSize = 100
	}
}
