package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wsa-2002/pd6-be-sub001/common/db/models"
	"github.com/wsa-2002/pd6-be-sub001/lib/connector"
	"github.com/wsa-2002/pd6-be-sub001/scoreboard"
)

type validateSettingRequest struct {
	Type            models.ScoreboardType `json:"Type"`
	Formula         string                `json:"Formula"`
	TeamLabelFilter *string               `json:"TeamLabelFilter,omitempty"`
}

// handleValidateSetting checks a scoreboard setting before it is persisted
// by the management flow, so broken formulas are rejected at edit time
// instead of degrading boards at view time.
func (a *Api) handleValidateSetting(c *gin.Context) {
	request := new(validateSettingRequest)
	if err := c.BindJSON(request); err != nil {
		connector.RespErr(c, http.StatusBadRequest, "can not parse setting, error: %s", err.Error())
		return
	}

	var err error
	switch request.Type {
	case models.ScoreboardTypeTeamProject:
		err = scoreboard.ValidateProjectSetting(&models.ScoreboardSettingTeamProject{
			ScoringFormula:  request.Formula,
			TeamLabelFilter: request.TeamLabelFilter,
		})
	case models.ScoreboardTypeTeamContest:
		err = scoreboard.ValidateContestSetting(&models.ScoreboardSettingTeamContest{
			PenaltyFormula:  request.Formula,
			TeamLabelFilter: request.TeamLabelFilter,
		})
	default:
		connector.RespErr(c, http.StatusBadRequest, "unknown scoreboard type %q", request.Type)
		return
	}

	if err != nil {
		connector.RespErr(c, http.StatusBadRequest, "%v", err)
		return
	}
	connector.RespOK(c, nil)
}
