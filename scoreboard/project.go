package scoreboard

import (
	"errors"
	"sort"

	"gorm.io/gorm"

	"github.com/wsa-2002/pd6-be-sub001/common/db/models"
	"github.com/wsa-2002/pd6-be-sub001/lib/formula"
	"github.com/wsa-2002/pd6-be-sub001/lib/logger"
)

// buildTeamProject maps each team's raw score per problem through the
// scoring formula. A formula fault coerces that team's score for that
// problem to 0 instead of failing the whole board.
func (a *Aggregator) buildTeamProject(
	scoreboard *models.Scoreboard,
	setting *models.ScoreboardSettingTeamProject,
	teams []models.Team,
) (*Board, error) {
	board := newBoard(scoreboard)

	members := make([][]uint, len(teams))
	rows := make([]ProjectRow, len(teams))
	totals := make([]float64, len(teams))
	for i, team := range teams {
		ids, err := a.teamMemberIDs(team.ID)
		if err != nil {
			return nil, err
		}
		members[i] = ids
		rows[i] = ProjectRow{TeamID: team.ID, TeamName: team.Name}
	}

	var baselineMembers []uint
	if setting.BaselineTeamID != nil {
		ids, err := a.teamMemberIDs(*setting.BaselineTeamID)
		if err != nil {
			return nil, err
		}
		baselineMembers = ids
	}

	for _, problemID := range scoreboard.TargetProblems {
		raw := make([]float64, len(teams))
		scored := make([]bool, len(teams))
		for i := range teams {
			value, ok, err := a.teamRawScore(problemID, members[i])
			if err != nil {
				return nil, err
			}
			raw[i], scored[i] = value, ok
		}

		best, worst := extrema(raw, scored)

		baseline := 0.0
		if setting.BaselineTeamID != nil {
			value, ok, err := a.teamRawScore(problemID, baselineMembers)
			if err != nil {
				return nil, err
			}
			if ok {
				baseline = value
			}
		}

		for i := range teams {
			// baseline exists as a variable only when a baseline team is
			// configured; otherwise referencing it is an unknown name and
			// that team's score degrades to 0 below.
			vars := map[string]float64{
				"team_score":  raw[i],
				"class_best":  best,
				"class_worst": worst,
			}
			if setting.BaselineTeamID != nil {
				vars["baseline"] = baseline
			}
			score, err := formula.Evaluate(setting.ScoringFormula, vars)
			if err != nil {
				logger.Warn(
					"scoring formula failed for team %d on problem %d, scoring 0: %v",
					teams[i].ID, problemID, err,
				)
				score = 0
			}
			rows[i].Cells = append(rows[i].Cells, ProjectCell{
				ProblemID: problemID,
				RawScore:  raw[i],
				Score:     score,
			})
			totals[i] += score
		}
	}

	if setting.RankByTotalScore {
		for i := range rows {
			total := totals[i]
			rows[i].TotalScore = &total
		}
		sort.SliceStable(rows, func(i, j int) bool {
			return *rows[i].TotalScore > *rows[j].TotalScore
		})
	}

	board.ProjectRows = rows
	return board, nil
}

// teamRawScore reduces a team's work on one problem to a single number: the
// best, across members, of the latest judgment's summed testcase scores for
// that member's most recent submission. Returns ok=false when no member has
// a judged submission.
func (a *Aggregator) teamRawScore(problemID uint, memberIDs []uint) (float64, bool, error) {
	best := 0.0
	found := false
	for _, memberID := range memberIDs {
		submission := new(models.Submission)
		err := a.db.
			Where("problem_id = ? AND account_id = ?", problemID, memberID).
			Order("submit_time DESC, id DESC").
			First(submission).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return 0, false, err
		}

		judgment, err := a.latestJudgment(submission.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return 0, false, err
		}

		sum := 0.0
		for _, judgeCase := range judgment.JudgeCases {
			sum += judgeCase.Score
		}
		if !found || sum > best {
			best, found = sum, true
		}
	}
	return best, found, nil
}

func extrema(raw []float64, scored []bool) (best, worst float64) {
	found := false
	for i, value := range raw {
		if !scored[i] {
			continue
		}
		if !found {
			best, worst, found = value, value, true
			continue
		}
		if value > best {
			best = value
		}
		if value < worst {
			worst = value
		}
	}
	return best, worst
}
