package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cenkalti/backoff/v5"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wsa-2002/pd6-be-sub001/auth"
	"github.com/wsa-2002/pd6-be-sub001/common/db/models"
	"github.com/wsa-2002/pd6-be-sub001/lib/connector"
	"github.com/wsa-2002/pd6-be-sub001/lib/logger"
)

// accountHeader carries the authenticated account id. Authentication itself
// happens upstream; this service only does authorization against role
// bindings.
const accountHeader = "X-Account-Id"

func (a *Api) accountID(c *gin.Context) (uint, bool) {
	value := c.GetHeader(accountHeader)
	if value == "" {
		connector.RespErr(c, http.StatusBadRequest, "%s header is required", accountHeader)
		return 0, false
	}
	id, err := strconv.ParseUint(value, 10, 0)
	if err != nil {
		connector.RespErr(c, http.StatusBadRequest, "%s is not uint", accountHeader)
		return 0, false
	}
	return uint(id), true
}

// optionalAccountID treats a missing header as the anonymous guest.
func (a *Api) optionalAccountID(c *gin.Context) uint {
	value := c.GetHeader(accountHeader)
	if value == "" {
		return 0
	}
	id, err := strconv.ParseUint(value, 10, 0)
	if err != nil {
		return 0
	}
	return uint(id)
}

func (a *Api) paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil {
		connector.RespErr(c, http.StatusBadRequest, "id is not uint")
		return 0, false
	}
	return uint(id), true
}

func (a *Api) respError(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, auth.ErrNoPermission):
		connector.RespErr(c, http.StatusForbidden, "no permission")
	case errors.Is(err, gorm.ErrRecordNotFound):
		connector.RespErr(c, http.StatusNotFound, "%s", notFoundMsg)
	default:
		logger.Error("request failed: %v", err)
		connector.RespErr(c, http.StatusInternalServerError, "internal error")
	}
}

func (a *Api) loadSubmission(c *gin.Context, submissionID uint) *models.Submission {
	submission := new(models.Submission)
	err := a.platform.DB.WithContext(c).First(submission, submissionID).Error
	if err == nil {
		return submission
	}
	a.respError(c, err, "submission not found")
	return nil
}

// retryUntilOK keeps retrying cleanup that must eventually happen, such as
// rolling back a submission row whose source upload failed.
func (a *Api) retryUntilOK(f func() error) {
	if err := f(); err == nil {
		return
	}
	a.platform.Go(func() {
		_, err := backoff.Retry(
			a.platform.StopCtx,
			func() (*struct{}, error) {
				return nil, f()
			},
			backoff.WithBackOff(backoff.NewExponentialBackOff()),
		)
		if err != nil {
			logger.Panic("cleanup retry has failed too many times, error: %v", err)
		}
	})
}
