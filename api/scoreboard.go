package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wsa-2002/pd6-be-sub001/auth"
	"github.com/wsa-2002/pd6-be-sub001/common/constants/role"
	"github.com/wsa-2002/pd6-be-sub001/common/db/models"
	"github.com/wsa-2002/pd6-be-sub001/lib/connector"
	"github.com/wsa-2002/pd6-be-sub001/scoreboard"
)

// handleScoreboard is readable by anyone, including the anonymous guest.
// A manager binding on the owning class lifts the contest freeze window.
func (a *Api) handleScoreboard(c *gin.Context) {
	accountID := a.optionalAccountID(c)
	scoreboardID, ok := a.paramID(c)
	if !ok {
		return
	}

	record := new(models.Scoreboard)
	if err := a.platform.DB.WithContext(c).First(record, scoreboardID).Error; err != nil {
		a.respError(c, err, "scoreboard not found")
		return
	}
	challenge := new(models.Challenge)
	if err := a.platform.DB.WithContext(c).First(challenge, record.ChallengeID).Error; err != nil {
		a.respError(c, err, "challenge not found")
		return
	}

	asManager, err := a.resolver.Validate(accountID, role.Manager, auth.ClassScope(challenge.ClassID), true)
	if err != nil {
		a.respError(c, err, "class not found")
		return
	}

	board, err := a.boards.Build(scoreboardID, asManager)
	if err != nil {
		if errors.Is(err, scoreboard.ErrInvalidTeamLabelFilter) {
			connector.RespErr(c, http.StatusBadRequest, "%v", err)
			return
		}
		a.respError(c, err, "scoreboard not found")
		return
	}
	connector.RespOK(c, board)
}
