package api

import (
	"github.com/gin-gonic/gin"

	"github.com/wsa-2002/pd6-be-sub001/auth"
	"github.com/wsa-2002/pd6-be-sub001/common/constants/role"
	"github.com/wsa-2002/pd6-be-sub001/lib/connector"
	"github.com/wsa-2002/pd6-be-sub001/lib/logger"
)

func (a *Api) handleRejudgeSubmission(c *gin.Context) {
	accountID, ok := a.accountID(c)
	if !ok {
		return
	}
	submissionID, ok := a.paramID(c)
	if !ok {
		return
	}
	submission := a.loadSubmission(c, submissionID)
	if submission == nil {
		return
	}

	err := a.resolver.Require(accountID, role.Manager, auth.ProblemScope(submission.ProblemID), true)
	if err != nil {
		a.respError(c, err, "problem not found")
		return
	}

	if err := a.dispatcher.RejudgeSubmission(c, submission.ID); err != nil {
		a.respError(c, err, "submission language not found")
		return
	}
	connector.RespOK(c, nil)
}

// handleRejudgeProblem only validates and schedules; the sweep itself runs
// as a platform process so large problems do not hold the request open.
func (a *Api) handleRejudgeProblem(c *gin.Context) {
	accountID, ok := a.accountID(c)
	if !ok {
		return
	}
	problemID, ok := a.paramID(c)
	if !ok {
		return
	}

	err := a.resolver.Require(accountID, role.Manager, auth.ProblemScope(problemID), true)
	if err != nil {
		a.respError(c, err, "problem not found")
		return
	}

	a.platform.Go(func() {
		if err := a.dispatcher.RejudgeProblem(a.platform.StopCtx, problemID); err != nil {
			logger.Error("batch rejudge of problem %d failed: %v", problemID, err)
		}
	})
	connector.RespOK(c, nil)
}
