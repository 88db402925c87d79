package api

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wsa-2002/pd6-be-sub001/auth"
	"github.com/wsa-2002/pd6-be-sub001/common/connectors/storageconn"
	"github.com/wsa-2002/pd6-be-sub001/common/constants/role"
	"github.com/wsa-2002/pd6-be-sub001/common/db/models"
	"github.com/wsa-2002/pd6-be-sub001/judge"
	"github.com/wsa-2002/pd6-be-sub001/lib/connector"
	"github.com/wsa-2002/pd6-be-sub001/lib/logger"
)

func (a *Api) handleSubmit(c *gin.Context) {
	accountID, ok := a.accountID(c)
	if !ok {
		return
	}

	problemID, err := strconv.ParseUint(c.PostForm("ProblemID"), 10, 0)
	if err != nil {
		connector.RespErr(c, http.StatusBadRequest, "ProblemID is not uint")
		return
	}
	languageID, err := strconv.ParseUint(c.PostForm("LanguageID"), 10, 0)
	if err != nil {
		connector.RespErr(c, http.StatusBadRequest, "LanguageID is not uint")
		return
	}
	file, err := c.FormFile("Content")
	if err != nil {
		connector.RespErr(c, http.StatusBadRequest, "no source code")
		return
	}

	err = a.resolver.Require(accountID, role.Normal, auth.ProblemScope(uint(problemID)), true)
	if err != nil {
		a.respError(c, err, "problem not found")
		return
	}

	contentUUID, err := uuid.NewV7()
	if err != nil {
		a.respError(c, err, "")
		return
	}
	submission := &models.Submission{
		AccountID:     accountID,
		ProblemID:     uint(problemID),
		LanguageID:    uint(languageID),
		ContentFile:   fmt.Sprintf("%s/%s", contentUUID, file.Filename),
		ContentLength: uint64(file.Size),
		Filename:      file.Filename,
		SubmitTime:    time.Now(),
	}
	if err := a.platform.DB.WithContext(c).Create(submission).Error; err != nil {
		logger.Error("failed to save submission to db, error: %v", err)
		connector.RespErr(c, http.StatusInternalServerError, "internal error")
		return
	}

	if !a.saveContentInStorage(c, submission, file) {
		a.retryUntilOK(func() error {
			return a.platform.DB.Delete(submission).Error
		})
		return
	}

	logger.Trace(
		"new submission, id: %d, problem: %d, language: %d",
		submission.ID, submission.ProblemID, submission.LanguageID,
	)

	if err := a.dispatcher.Submit(c, submission.ID); err != nil {
		a.retryUntilOK(func() error {
			return a.platform.DB.Delete(submission).Error
		})
		a.retryUntilOK(func() error {
			return a.platform.StorageConn.Delete(judge.BucketSubmission, submission.ContentFile)
		})
		a.respError(c, err, "submission language not found")
		return
	}

	connector.RespOK(c, submission)
}

func (a *Api) saveContentInStorage(c *gin.Context, submission *models.Submission, file *multipart.FileHeader) bool {
	reader, err := file.Open()
	if err != nil {
		connector.RespErr(c, http.StatusBadRequest, "failed to read source code")
		return false
	}
	defer reader.Close()

	_, err = a.platform.StorageConn.Upload(&storageconn.UploadRequest{
		Bucket:   judge.BucketSubmission,
		Key:      submission.ContentFile,
		Filename: submission.Filename,
		File:     reader,
	})
	if err != nil {
		logger.Error("failed to save source code, error: %v", err)
		connector.RespErr(c, http.StatusInternalServerError, "internal error")
		return false
	}
	return true
}
