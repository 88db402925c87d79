package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type ScoreboardType string

const (
	ScoreboardTypeTeamProject ScoreboardType = "team_project"
	ScoreboardTypeTeamContest ScoreboardType = "team_contest"
)

// UintList is stored as a json array so the problem order survives the
// round trip; scoreboard columns keep their configured order.
type UintList []uint

func (l UintList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *UintList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported source type while scanning UintList")
	}
}

func (l UintList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql", "sqlite":
		return "JSON"
	case "postgres":
		return "JSONB"
	}
	return ""
}

type Scoreboard struct {
	gorm.Model
	ChallengeID    uint           `json:"ChallengeID" gorm:"index"`
	ChallengeLabel string         `json:"ChallengeLabel"`
	Title          string         `json:"Title"`
	TargetProblems UintList       `gorm:"type:jsonb" json:"TargetProblems"`
	Type           ScoreboardType `json:"Type"`
	SettingID      uint           `json:"SettingID"`
}

type ScoreboardSettingTeamProject struct {
	gorm.Model
	ScoringFormula   string  `json:"ScoringFormula"`
	BaselineTeamID   *uint   `json:"BaselineTeamID,omitempty"`
	RankByTotalScore bool    `json:"RankByTotalScore"`
	TeamLabelFilter  *string `json:"TeamLabelFilter,omitempty"`
}

type ScoreboardSettingTeamContest struct {
	gorm.Model
	PenaltyFormula  string  `json:"PenaltyFormula"`
	TeamLabelFilter *string `json:"TeamLabelFilter,omitempty"`
}
