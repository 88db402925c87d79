package api

import (
	"github.com/gin-gonic/gin"

	"github.com/wsa-2002/pd6-be-sub001/auth"
	"github.com/wsa-2002/pd6-be-sub001/common/constants/role"
	"github.com/wsa-2002/pd6-be-sub001/common/db/models"
	"github.com/wsa-2002/pd6-be-sub001/lib/connector"
)

// authorizeJudgmentRead lets submitters read their own results; anyone else
// needs a manager binding reachable from the problem's class.
func (a *Api) authorizeJudgmentRead(c *gin.Context, accountID uint, submission *models.Submission) bool {
	if submission.AccountID == accountID {
		return true
	}
	err := a.resolver.Require(accountID, role.Manager, auth.ProblemScope(submission.ProblemID), true)
	if err != nil {
		a.respError(c, err, "problem not found")
		return false
	}
	return true
}

func (a *Api) handleLatestJudgment(c *gin.Context) {
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
	if !a.authorizeJudgmentRead(c, accountID, submission) {
		return
	}

	judgment, err := a.store.ReadLatest(submission.ID)
	if err != nil {
		a.respError(c, err, "submission is not judged yet")
		return
	}
	connector.RespOK(c, judgment)
}

func (a *Api) handleJudgmentHistory(c *gin.Context) {
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
	if !a.authorizeJudgmentRead(c, accountID, submission) {
		return
	}

	judgments, err := a.store.Browse(submission.ID)
	if err != nil {
		a.respError(c, err, "submission not found")
		return
	}
	connector.RespOK(c, judgments)
}
