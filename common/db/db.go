package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/wsa-2002/pd6-be-sub001/common/config"
	"github.com/wsa-2002/pd6-be-sub001/common/db/models"
	"github.com/wsa-2002/pd6-be-sub001/lib/logger"
)

func NewDB(config config.DBConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if config.InMemory {
		dialector = sqlite.Open("file::memory:?cache=shared")
	} else {
		dialector = postgres.Open(config.Dsn)
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, logger.Error("Can't open database with dsn=\"%v\" because of %v", config.Dsn, err)
	}
	if err = Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	for _, model := range []any{
		&models.RoleBinding{},
		&models.Class{},
		&models.Challenge{},
		&models.Problem{},
		&models.Testcase{},
		&models.AssistingData{},
		&models.SubmissionLanguage{},
		&models.Submission{},
		&models.Judgment{},
		&models.JudgeCase{},
		&models.Team{},
		&models.TeamMember{},
		&models.Scoreboard{},
		&models.ScoreboardSettingTeamProject{},
		&models.ScoreboardSettingTeamContest{},
	} {
		if err := db.AutoMigrate(model); err != nil {
			return logger.Error("Can't migrate %T: %v", model, err)
		}
	}
	return nil
}
