package scoreboard

import (
	"errors"
	"fmt"
	"regexp"

	"gorm.io/gorm"

	"github.com/wsa-2002/pd6-be-sub001/common/db/models"
	"github.com/wsa-2002/pd6-be-sub001/lib/formula"
)

// ErrInvalidTeamLabelFilter marks a team label filter that does not compile
// as a regular expression. It is distinct from formula.ErrInvalidFormula so
// callers can tell a broken filter apart from a broken scoring formula.
var ErrInvalidTeamLabelFilter = errors.New("invalid team label filter")

// Variable sets accepted by each scoreboard mode. Settings are validated
// against these at edit time with formula.Validate; baseline is only in
// scope when the setting configures a baseline team.
var (
	ProjectFormulaVariables = []string{"team_score", "class_best", "class_worst", "baseline"}
	ContestPenaltyVariables = []string{"solved_time_mins", "wrong_submissions"}
)

// ValidateProjectSetting rejects a team-project setting whose formula or
// label filter would fail at build time. Run it before persisting edits.
// The baseline variable is only allowed when the setting actually carries a
// baseline team.
func ValidateProjectSetting(setting *models.ScoreboardSettingTeamProject) error {
	allowed := ProjectFormulaVariables
	if setting.BaselineTeamID == nil {
		allowed = []string{"team_score", "class_best", "class_worst"}
	}
	if err := formula.Validate(setting.ScoringFormula, allowed); err != nil {
		return err
	}
	return validateFilter(setting.TeamLabelFilter)
}

func ValidateContestSetting(setting *models.ScoreboardSettingTeamContest) error {
	if err := formula.Validate(setting.PenaltyFormula, ContestPenaltyVariables); err != nil {
		return err
	}
	return validateFilter(setting.TeamLabelFilter)
}

func validateFilter(filter *string) error {
	if filter == nil {
		return nil
	}
	if _, err := regexp.Compile(*filter); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTeamLabelFilter, err)
	}
	return nil
}

// Aggregator computes scoreboard views on demand. It holds no state between
// builds; everything is read from the database at build time.
type Aggregator struct {
	db *gorm.DB
}

func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

// Board is one computed scoreboard view. Exactly one of ProjectRows and
// ContestRows is populated, matching Type.
type Board struct {
	ScoreboardID   uint                  `json:"ScoreboardID"`
	ChallengeID    uint                  `json:"ChallengeID"`
	ChallengeLabel string                `json:"ChallengeLabel"`
	Title          string                `json:"Title"`
	Type           models.ScoreboardType `json:"Type"`
	TargetProblems []uint                `json:"TargetProblems"`

	ProjectRows []ProjectRow `json:"ProjectRows,omitempty"`
	ContestRows []ContestRow `json:"ContestRows,omitempty"`
}

type ProjectCell struct {
	ProblemID uint    `json:"ProblemID"`
	RawScore  float64 `json:"RawScore"`
	Score     float64 `json:"Score"`
}

type ProjectRow struct {
	TeamID   uint          `json:"TeamID"`
	TeamName string        `json:"TeamName"`
	Cells    []ProjectCell `json:"Cells"`

	// TotalScore is set only when the setting ranks by total score.
	TotalScore *float64 `json:"TotalScore,omitempty"`
}

type ContestCell struct {
	ProblemID        uint    `json:"ProblemID"`
	Solved           bool    `json:"Solved"`
	SolveTimeMins    int     `json:"SolveTimeMins"`
	WrongSubmissions int     `json:"WrongSubmissions"`
	IsFirst          bool    `json:"IsFirst"`
	Penalty          float64 `json:"Penalty"`
}

type ContestRow struct {
	Rank         int           `json:"Rank"`
	TeamID       uint          `json:"TeamID"`
	TeamName     string        `json:"TeamName"`
	SolvedCount  int           `json:"SolvedCount"`
	TotalPenalty float64       `json:"TotalPenalty"`
	Cells        []ContestCell `json:"Cells"`
}

// Build computes the view for one scoreboard. asManager lifts the contest
// freeze window; it has no effect on team-project boards.
func (a *Aggregator) Build(scoreboardID uint, asManager bool) (*Board, error) {
	scoreboard := new(models.Scoreboard)
	if err := a.db.First(scoreboard, scoreboardID).Error; err != nil {
		return nil, err
	}
	challenge := new(models.Challenge)
	if err := a.db.First(challenge, scoreboard.ChallengeID).Error; err != nil {
		return nil, err
	}

	switch scoreboard.Type {
	case models.ScoreboardTypeTeamProject:
		setting := new(models.ScoreboardSettingTeamProject)
		if err := a.db.First(setting, scoreboard.SettingID).Error; err != nil {
			return nil, err
		}
		teams, err := a.selectTeams(challenge.ClassID, setting.TeamLabelFilter)
		if err != nil {
			return nil, err
		}
		return a.buildTeamProject(scoreboard, setting, teams)
	case models.ScoreboardTypeTeamContest:
		setting := new(models.ScoreboardSettingTeamContest)
		if err := a.db.First(setting, scoreboard.SettingID).Error; err != nil {
			return nil, err
		}
		teams, err := a.selectTeams(challenge.ClassID, setting.TeamLabelFilter)
		if err != nil {
			return nil, err
		}
		return a.buildTeamContest(scoreboard, setting, challenge, teams, asManager)
	default:
		return nil, fmt.Errorf("unknown scoreboard type %q", scoreboard.Type)
	}
}

func newBoard(scoreboard *models.Scoreboard) *Board {
	return &Board{
		ScoreboardID:   scoreboard.ID,
		ChallengeID:    scoreboard.ChallengeID,
		ChallengeLabel: scoreboard.ChallengeLabel,
		Title:          scoreboard.Title,
		Type:           scoreboard.Type,
		TargetProblems: scoreboard.TargetProblems,
	}
}

// selectTeams lists the class's teams, filtered by the optional label
// pattern. Team order is by id so repeated builds stay stable.
func (a *Aggregator) selectTeams(classID uint, filter *string) ([]models.Team, error) {
	var teams []models.Team
	if err := a.db.Where("class_id = ?", classID).Order("id").Find(&teams).Error; err != nil {
		return nil, err
	}
	if filter == nil {
		return teams, nil
	}
	pattern, err := regexp.Compile(*filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTeamLabelFilter, err)
	}
	selected := make([]models.Team, 0, len(teams))
	for _, team := range teams {
		if pattern.MatchString(team.Label) {
			selected = append(selected, team)
		}
	}
	return selected, nil
}

func (a *Aggregator) teamMemberIDs(teamID uint) ([]uint, error) {
	var members []models.TeamMember
	if err := a.db.Where("team_id = ?", teamID).Find(&members).Error; err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(members))
	for _, member := range members {
		ids = append(ids, member.MemberID)
	}
	return ids, nil
}

func (a *Aggregator) latestJudgment(submissionID uint) (*models.Judgment, error) {
	judgment := new(models.Judgment)
	err := a.db.
		Preload("JudgeCases").
		Where("submission_id = ?", submissionID).
		Order("judge_time DESC, id DESC").
		First(judgment).Error
	if err != nil {
		return nil, err
	}
	return judgment, nil
}
