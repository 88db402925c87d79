package scoreboard

import (
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/wsa-2002/pd6-be-sub001/common/db/models"
	"github.com/wsa-2002/pd6-be-sub001/lib/formula"
	"github.com/wsa-2002/pd6-be-sub001/lib/logger"
)

// freezeWindow is the trailing stretch of a contest hidden from non-manager
// views. It is applied as a submit-time cutoff in the attempt query, never
// by redacting rows after the fact.
const freezeWindow = time.Hour

func (a *Aggregator) buildTeamContest(
	scoreboard *models.Scoreboard,
	setting *models.ScoreboardSettingTeamContest,
	challenge *models.Challenge,
	teams []models.Team,
	asManager bool,
) (*Board, error) {
	board := newBoard(scoreboard)

	cutoff := challenge.EndTime
	if !asManager {
		cutoff = challenge.EndTime.Add(-freezeWindow)
	}

	members := make([][]uint, len(teams))
	rows := make([]ContestRow, len(teams))
	for i, team := range teams {
		ids, err := a.teamMemberIDs(team.ID)
		if err != nil {
			return nil, err
		}
		members[i] = ids
		rows[i] = ContestRow{TeamID: team.ID, TeamName: team.Name}
	}

	for _, problemID := range scoreboard.TargetProblems {
		cells := make([]ContestCell, len(teams))
		acceptedAt := make([]time.Time, len(teams))
		first := -1
		for i := range teams {
			cell, at, err := a.contestCell(problemID, members[i], challenge.StartTime, cutoff)
			if err != nil {
				return nil, err
			}
			cells[i], acceptedAt[i] = cell, at
			if cell.Solved && (first < 0 || at.Before(acceptedAt[first])) {
				first = i
			}
		}
		if first >= 0 {
			cells[first].IsFirst = true
		}

		for i := range teams {
			if cells[i].Solved {
				penalty, err := formula.Evaluate(setting.PenaltyFormula, map[string]float64{
					"solved_time_mins":  float64(cells[i].SolveTimeMins),
					"wrong_submissions": float64(cells[i].WrongSubmissions),
				})
				if err != nil {
					logger.Warn(
						"penalty formula failed for team %d on problem %d, charging 0: %v",
						teams[i].ID, problemID, err,
					)
					penalty = 0
				}
				cells[i].Penalty = penalty
				rows[i].SolvedCount++
				rows[i].TotalPenalty += penalty
			}
			rows[i].Cells = append(rows[i].Cells, cells[i])
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].SolvedCount != rows[j].SolvedCount {
			return rows[i].SolvedCount > rows[j].SolvedCount
		}
		return rows[i].TotalPenalty < rows[j].TotalPenalty
	})
	rank := 0
	for i := range rows {
		if i == 0 ||
			rows[i].SolvedCount != rows[i-1].SolvedCount ||
			rows[i].TotalPenalty != rows[i-1].TotalPenalty {
			rank = i + 1
		}
		rows[i].Rank = rank
	}

	board.ContestRows = rows
	return board, nil
}

// contestCell walks one team's attempts on one problem in submit order.
// Attempts without a judgment yet are neither solves nor wrongs. The second
// return value is the accepting submission's submit time, zero if unsolved.
func (a *Aggregator) contestCell(
	problemID uint,
	memberIDs []uint,
	startTime, cutoff time.Time,
) (ContestCell, time.Time, error) {
	cell := ContestCell{ProblemID: problemID}
	if len(memberIDs) == 0 {
		return cell, time.Time{}, nil
	}

	var submissions []models.Submission
	err := a.db.
		Where("problem_id = ? AND account_id IN ? AND submit_time < ?", problemID, memberIDs, cutoff).
		Order("submit_time ASC, id ASC").
		Find(&submissions).Error
	if err != nil {
		return cell, time.Time{}, err
	}

	for i := range submissions {
		judgment, err := a.latestJudgment(submissions[i].ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return cell, time.Time{}, err
		}
		// A pending judgment is the same as no judgment: an in-flight
		// rejudge must not inflate the wrong counter.
		if !judgment.Verdict.IsFinal() {
			continue
		}
		if judgment.Verdict.IsAccepted() {
			cell.Solved = true
			cell.SolveTimeMins = ceilMinutes(submissions[i].SubmitTime.Sub(startTime))
			return cell, submissions[i].SubmitTime, nil
		}
		cell.WrongSubmissions++
	}
	return cell, time.Time{}, nil
}

func ceilMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Minute - 1) / time.Minute)
}
