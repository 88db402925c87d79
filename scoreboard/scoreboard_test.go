package scoreboard

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xorcare/pointer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/wsa-2002/pd6-be-sub001/common/constants/verdict"
	"github.com/wsa-2002/pd6-be-sub001/common/db"
	"github.com/wsa-2002/pd6-be-sub001/common/db/models"
	"github.com/wsa-2002/pd6-be-sub001/lib/formula"
)

func fixtureDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.Nil(t, err)
	require.Nil(t, db.Migrate(gdb))
	return gdb
}

type fixture struct {
	t   *testing.T
	gdb *gorm.DB

	class     *models.Class
	challenge *models.Challenge

	nextAccount uint
}

func newFixture(t *testing.T, start, end time.Time) *fixture {
	t.Helper()
	gdb := fixtureDB(t)
	class := &models.Class{CourseID: 1, Name: "pd-2024"}
	require.Nil(t, gdb.Create(class).Error)
	challenge := &models.Challenge{
		ClassID:   class.ID,
		Title:     "final exam",
		StartTime: start,
		EndTime:   end,
	}
	require.Nil(t, gdb.Create(challenge).Error)
	return &fixture{t: t, gdb: gdb, class: class, challenge: challenge, nextAccount: 100}
}

// team creates a team with one member and returns the team and the member's
// account id.
func (f *fixture) team(name, label string) (*models.Team, uint) {
	f.t.Helper()
	team := &models.Team{ClassID: f.class.ID, Name: name, Label: label}
	require.Nil(f.t, f.gdb.Create(team).Error)
	f.nextAccount++
	member := &models.TeamMember{TeamID: team.ID, MemberID: f.nextAccount}
	require.Nil(f.t, f.gdb.Create(member).Error)
	return team, f.nextAccount
}

// judged inserts one submission plus one judgment with a single judge case
// carrying the given score.
func (f *fixture) judged(accountID, problemID uint, submitTime time.Time, v verdict.Verdict, score float64) {
	f.t.Helper()
	submission := &models.Submission{
		AccountID:   accountID,
		ProblemID:   problemID,
		LanguageID:  1,
		ContentFile: fmt.Sprintf("content-%d-%d", accountID, submitTime.UnixNano()),
		Filename:    "main.py",
		SubmitTime:  submitTime,
	}
	require.Nil(f.t, f.gdb.Create(submission).Error)
	judgment := &models.Judgment{
		SubmissionID: submission.ID,
		Verdict:      v,
		Score:        score,
		JudgeTime:    submitTime.Add(10 * time.Second),
		JudgeCases: []models.JudgeCase{
			{TestcaseID: 1, Verdict: v, Score: score},
		},
	}
	require.Nil(f.t, f.gdb.Create(judgment).Error)
}

func (f *fixture) projectScoreboard(problemIDs []uint, setting *models.ScoreboardSettingTeamProject) *models.Scoreboard {
	f.t.Helper()
	require.Nil(f.t, f.gdb.Create(setting).Error)
	scoreboard := &models.Scoreboard{
		ChallengeID:    f.challenge.ID,
		ChallengeLabel: "final",
		Title:          "project board",
		TargetProblems: problemIDs,
		Type:           models.ScoreboardTypeTeamProject,
		SettingID:      setting.ID,
	}
	require.Nil(f.t, f.gdb.Create(scoreboard).Error)
	return scoreboard
}

func (f *fixture) contestScoreboard(problemIDs []uint, setting *models.ScoreboardSettingTeamContest) *models.Scoreboard {
	f.t.Helper()
	require.Nil(f.t, f.gdb.Create(setting).Error)
	scoreboard := &models.Scoreboard{
		ChallengeID:    f.challenge.ID,
		ChallengeLabel: "final",
		Title:          "contest board",
		TargetProblems: problemIDs,
		Type:           models.ScoreboardTypeTeamContest,
		SettingID:      setting.ID,
	}
	require.Nil(f.t, f.gdb.Create(scoreboard).Error)
	return scoreboard
}

var t0 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func TestTeamProjectBoard(t *testing.T) {
	t.Run("formula maps raw scores with class extrema and baseline", func(t *testing.T) {
		f := newFixture(t, t0, t0.Add(3*time.Hour))
		alpha, alphaMember := f.team("alpha", "t1")
		bravo, bravoMember := f.team("bravo", "t2")
		base, baseMember := f.team("baseline", "ref")

		f.judged(alphaMember, 11, t0.Add(time.Hour), verdict.AC, 80)
		f.judged(bravoMember, 11, t0.Add(time.Hour), verdict.WA, 20)
		f.judged(baseMember, 11, t0.Add(time.Hour), verdict.WA, 40)

		board, err := NewAggregator(f.gdb).Build(f.projectScoreboard([]uint{11},
			&models.ScoreboardSettingTeamProject{
				ScoringFormula: "(team_score - class_worst) / baseline",
				BaselineTeamID: pointer.Uint(base.ID),
			}).ID, false)
		require.Nil(t, err)
		require.Len(t, board.ProjectRows, 3)

		byTeam := make(map[uint]ProjectRow)
		for _, row := range board.ProjectRows {
			byTeam[row.TeamID] = row
		}
		// best=80, worst=20, baseline=40
		require.InDelta(t, 1.5, byTeam[alpha.ID].Cells[0].Score, 1e-9)
		require.InDelta(t, 0., byTeam[bravo.ID].Cells[0].Score, 1e-9)
		require.InDelta(t, 80., byTeam[alpha.ID].Cells[0].RawScore, 1e-9)
		require.Nil(t, byTeam[alpha.ID].TotalScore)
	})

	t.Run("missing baseline team scores as zero, faults coerce to zero", func(t *testing.T) {
		f := newFixture(t, t0, t0.Add(3*time.Hour))
		alpha, alphaMember := f.team("alpha", "t1")
		f.judged(alphaMember, 11, t0.Add(time.Hour), verdict.AC, 80)

		// baseline team exists but never submitted, so baseline=0 and the
		// division degrades to 0 per team instead of failing the build.
		base, _ := f.team("baseline", "ref")
		board, err := NewAggregator(f.gdb).Build(f.projectScoreboard([]uint{11},
			&models.ScoreboardSettingTeamProject{
				ScoringFormula: "team_score / baseline",
				BaselineTeamID: pointer.Uint(base.ID),
			}).ID, false)
		require.Nil(t, err)

		for _, row := range board.ProjectRows {
			if row.TeamID == alpha.ID {
				require.Equal(t, 0., row.Cells[0].Score)
			}
		}
	})

	t.Run("baseline is undefined without a baseline team", func(t *testing.T) {
		f := newFixture(t, t0, t0.Add(3*time.Hour))
		alpha, alphaMember := f.team("alpha", "t1")
		f.judged(alphaMember, 11, t0.Add(time.Hour), verdict.AC, 80)

		// No baseline team configured, so referencing baseline is an
		// unknown name and the team's score degrades to 0.
		board, err := NewAggregator(f.gdb).Build(f.projectScoreboard([]uint{11},
			&models.ScoreboardSettingTeamProject{
				ScoringFormula: "team_score + baseline",
			}).ID, false)
		require.Nil(t, err)
		require.Equal(t, alpha.ID, board.ProjectRows[0].TeamID)
		require.Equal(t, 0., board.ProjectRows[0].Cells[0].Score)
		require.Equal(t, 80., board.ProjectRows[0].Cells[0].RawScore)
	})

	t.Run("latest judgment of latest submission wins", func(t *testing.T) {
		f := newFixture(t, t0, t0.Add(3*time.Hour))
		alpha, alphaMember := f.team("alpha", "t1")
		f.judged(alphaMember, 11, t0.Add(time.Hour), verdict.AC, 100)
		f.judged(alphaMember, 11, t0.Add(2*time.Hour), verdict.WA, 30)

		board, err := NewAggregator(f.gdb).Build(f.projectScoreboard([]uint{11},
			&models.ScoreboardSettingTeamProject{ScoringFormula: "team_score"}).ID, false)
		require.Nil(t, err)
		require.Equal(t, alpha.ID, board.ProjectRows[0].TeamID)
		require.Equal(t, 30., board.ProjectRows[0].Cells[0].Score)
	})

	t.Run("rank by total score orders rows and exposes totals", func(t *testing.T) {
		f := newFixture(t, t0, t0.Add(3*time.Hour))
		_, alphaMember := f.team("alpha", "t1")
		bravo, bravoMember := f.team("bravo", "t2")
		f.judged(alphaMember, 11, t0.Add(time.Hour), verdict.WA, 40)
		f.judged(bravoMember, 11, t0.Add(time.Hour), verdict.AC, 90)

		board, err := NewAggregator(f.gdb).Build(f.projectScoreboard([]uint{11},
			&models.ScoreboardSettingTeamProject{
				ScoringFormula:   "team_score",
				RankByTotalScore: true,
			}).ID, false)
		require.Nil(t, err)
		require.Equal(t, bravo.ID, board.ProjectRows[0].TeamID)
		require.NotNil(t, board.ProjectRows[0].TotalScore)
		require.Equal(t, 90., *board.ProjectRows[0].TotalScore)
	})
}

func TestTeamContestBoard(t *testing.T) {
	t.Run("solve time, wrong counter and first solve", func(t *testing.T) {
		f := newFixture(t, t0, t0.Add(3*time.Hour))
		alpha, alphaMember := f.team("alpha", "t1")
		bravo, bravoMember := f.team("bravo", "t2")

		// alpha: 2 wrong attempts, then accepted at T0+47min.
		f.judged(alphaMember, 11, t0.Add(10*time.Minute), verdict.WA, 0)
		f.judged(alphaMember, 11, t0.Add(25*time.Minute), verdict.TL, 0)
		f.judged(alphaMember, 11, t0.Add(47*time.Minute), verdict.AC, 100)
		// bravo solves later.
		f.judged(bravoMember, 11, t0.Add(80*time.Minute), verdict.AC, 100)

		board, err := NewAggregator(f.gdb).Build(f.contestScoreboard([]uint{11},
			&models.ScoreboardSettingTeamContest{
				PenaltyFormula: "solved_time_mins + 20 * wrong_submissions",
			}).ID, false)
		require.Nil(t, err)
		require.Len(t, board.ContestRows, 2)

		require.Equal(t, alpha.ID, board.ContestRows[0].TeamID)
		require.Equal(t, 1, board.ContestRows[0].Rank)
		alphaCell := board.ContestRows[0].Cells[0]
		require.True(t, alphaCell.Solved)
		require.Equal(t, 47, alphaCell.SolveTimeMins)
		require.Equal(t, 2, alphaCell.WrongSubmissions)
		require.True(t, alphaCell.IsFirst)
		require.Equal(t, 87., alphaCell.Penalty)
		require.Equal(t, 87., board.ContestRows[0].TotalPenalty)

		require.Equal(t, bravo.ID, board.ContestRows[1].TeamID)
		require.Equal(t, 2, board.ContestRows[1].Rank)
		require.False(t, board.ContestRows[1].Cells[0].IsFirst)
	})

	t.Run("wrong attempts after the first accept do not count", func(t *testing.T) {
		f := newFixture(t, t0, t0.Add(3*time.Hour))
		_, member := f.team("alpha", "t1")
		f.judged(member, 11, t0.Add(20*time.Minute), verdict.AC, 100)
		f.judged(member, 11, t0.Add(30*time.Minute), verdict.WA, 0)

		board, err := NewAggregator(f.gdb).Build(f.contestScoreboard([]uint{11},
			&models.ScoreboardSettingTeamContest{PenaltyFormula: "solved_time_mins"}).ID, false)
		require.Nil(t, err)
		cell := board.ContestRows[0].Cells[0]
		require.True(t, cell.Solved)
		require.Equal(t, 20, cell.SolveTimeMins)
		require.Equal(t, 0, cell.WrongSubmissions)
	})

	t.Run("pending judgments are not wrong attempts", func(t *testing.T) {
		f := newFixture(t, t0, t0.Add(3*time.Hour))
		_, member := f.team("alpha", "t1")
		f.judged(member, 11, t0.Add(10*time.Minute), verdict.WA, 0)
		f.judged(member, 11, t0.Add(20*time.Minute), verdict.PD, 0)
		f.judged(member, 11, t0.Add(30*time.Minute), verdict.AC, 100)

		board, err := NewAggregator(f.gdb).Build(f.contestScoreboard([]uint{11},
			&models.ScoreboardSettingTeamContest{PenaltyFormula: "solved_time_mins"}).ID, false)
		require.Nil(t, err)
		cell := board.ContestRows[0].Cells[0]
		require.True(t, cell.Solved)
		require.Equal(t, 30, cell.SolveTimeMins)
		require.Equal(t, 1, cell.WrongSubmissions)
	})

	t.Run("freeze window hides the last hour from non-managers", func(t *testing.T) {
		f := newFixture(t, t0, t0.Add(3*time.Hour))
		_, member := f.team("alpha", "t1")
		// Inside the last-hour freeze.
		f.judged(member, 11, t0.Add(2*time.Hour+59*time.Minute), verdict.AC, 100)

		aggregator := NewAggregator(f.gdb)
		scoreboardID := f.contestScoreboard([]uint{11},
			&models.ScoreboardSettingTeamContest{PenaltyFormula: "solved_time_mins"}).ID

		normal, err := aggregator.Build(scoreboardID, false)
		require.Nil(t, err)
		require.False(t, normal.ContestRows[0].Cells[0].Solved)
		require.Equal(t, 0, normal.ContestRows[0].SolvedCount)

		manager, err := aggregator.Build(scoreboardID, true)
		require.Nil(t, err)
		require.True(t, manager.ContestRows[0].Cells[0].Solved)
		require.Equal(t, 179, manager.ContestRows[0].Cells[0].SolveTimeMins)
	})

	t.Run("ranking ties share a rank", func(t *testing.T) {
		f := newFixture(t, t0, t0.Add(3*time.Hour))
		_, alphaMember := f.team("alpha", "t1")
		_, bravoMember := f.team("bravo", "t2")
		_, charlieMember := f.team("charlie", "t3")
		f.judged(alphaMember, 11, t0.Add(30*time.Minute), verdict.AC, 100)
		f.judged(bravoMember, 11, t0.Add(30*time.Minute), verdict.AC, 100)
		f.judged(charlieMember, 11, t0.Add(40*time.Minute), verdict.WA, 0)

		board, err := NewAggregator(f.gdb).Build(f.contestScoreboard([]uint{11},
			&models.ScoreboardSettingTeamContest{PenaltyFormula: "solved_time_mins"}).ID, false)
		require.Nil(t, err)
		require.Equal(t, 1, board.ContestRows[0].Rank)
		require.Equal(t, 1, board.ContestRows[1].Rank)
		require.Equal(t, 3, board.ContestRows[2].Rank)
	})
}

func TestTeamSelection(t *testing.T) {
	t.Run("label filter narrows the board", func(t *testing.T) {
		f := newFixture(t, t0, t0.Add(3*time.Hour))
		graded, gradedMember := f.team("graded", "grade-1")
		f.team("audit", "audit-1")
		f.judged(gradedMember, 11, t0.Add(time.Hour), verdict.AC, 100)

		board, err := NewAggregator(f.gdb).Build(f.projectScoreboard([]uint{11},
			&models.ScoreboardSettingTeamProject{
				ScoringFormula:  "team_score",
				TeamLabelFilter: pointer.String("^grade-"),
			}).ID, false)
		require.Nil(t, err)
		require.Len(t, board.ProjectRows, 1)
		require.Equal(t, graded.ID, board.ProjectRows[0].TeamID)
	})

	t.Run("invalid filter surfaces its own error", func(t *testing.T) {
		f := newFixture(t, t0, t0.Add(3*time.Hour))
		f.team("alpha", "t1")

		_, err := NewAggregator(f.gdb).Build(f.projectScoreboard([]uint{11},
			&models.ScoreboardSettingTeamProject{
				ScoringFormula:  "team_score",
				TeamLabelFilter: pointer.String("(unclosed"),
			}).ID, false)
		require.ErrorIs(t, err, ErrInvalidTeamLabelFilter)
	})
}

func TestValidateSetting(t *testing.T) {
	t.Run("accepts the documented variables", func(t *testing.T) {
		require.Nil(t, ValidateProjectSetting(&models.ScoreboardSettingTeamProject{
			ScoringFormula: "(team_score - class_worst) / (class_best - class_worst) * 100 + baseline",
		}))
		require.Nil(t, ValidateContestSetting(&models.ScoreboardSettingTeamContest{
			PenaltyFormula: "solved_time_mins + 20 * wrong_submissions",
		}))
	})

	t.Run("baseline needs a configured baseline team", func(t *testing.T) {
		err := ValidateProjectSetting(&models.ScoreboardSettingTeamProject{
			ScoringFormula: "team_score / baseline",
		})
		require.ErrorIs(t, err, formula.ErrInvalidFormula)

		require.Nil(t, ValidateProjectSetting(&models.ScoreboardSettingTeamProject{
			ScoringFormula: "team_score / baseline",
			BaselineTeamID: pointer.Uint(3),
		}))
	})

	t.Run("rejects variables from the other mode", func(t *testing.T) {
		err := ValidateContestSetting(&models.ScoreboardSettingTeamContest{
			PenaltyFormula: "team_score",
		})
		require.ErrorIs(t, err, formula.ErrInvalidFormula)
	})

	t.Run("rejects a broken label filter", func(t *testing.T) {
		err := ValidateProjectSetting(&models.ScoreboardSettingTeamProject{
			ScoringFormula:  "team_score",
			TeamLabelFilter: pointer.String("["),
		})
		require.ErrorIs(t, err, ErrInvalidTeamLabelFilter)
	})
}

func TestBuildUnknownScoreboard(t *testing.T) {
	f := newFixture(t, t0, t0.Add(3*time.Hour))
	_, err := NewAggregator(f.gdb).Build(999, false)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
