package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/shop_backend/config"
	"bitbucket.org/mmdatafocus/shop_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondError translates domain errors into HTTP statuses. Anything that is
// not a known domain error is logged and reported as a 500 without leaking
// internals to the client.
func respondError(c *gin.Context, err error) {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(validationErrors)})
		return
	}

	appErr := utils.AsAppError(err)
	if appErr == nil {
		logger := config.GetLogger()
		cid, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
		config.LogError(logger, "handlers", c.FullPath(), "unhandled error", gin.H{"correlation_id": cid}, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	status := http.StatusBadRequest
	switch appErr.Kind {
	case utils.ErrorKindNotFound:
		status = http.StatusNotFound
	case utils.ErrorKindForbidden:
		status = http.StatusForbidden
	case utils.ErrorKindConflict:
		status = http.StatusConflict
	}

	body := gin.H{"error": appErr.Message, "kind": string(appErr.Kind)}
	if appErr.Field != "" {
		body["field"] = appErr.Field
	}
	c.JSON(status, body)
}

func pathId(c *gin.Context) (int, bool) {
	id, err := utils.StringToInt(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
