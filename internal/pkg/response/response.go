package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"leadnurture/internal/pkg/apperror"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// FromError writes the envelope for one of the apperror kinds. Anything
// else becomes a 500. It reports whether the error was an authentication
// failure so callers can drop the operator's session.
func FromError(c *gin.Context, err error) bool {
	var (
		partial    *apperror.PartialCommitError
		validation *apperror.ValidationError
		authErr    *apperror.AuthenticationError
		remote     *apperror.RemoteRequestError
	)

	switch {
	case errors.As(err, &partial):
		details := gin.H{"campaign_id": partial.CampaignID}
		if errors.As(partial.Err, &remote) {
			details["reason"] = remote.Message()
		}
		ErrorWithDetails(c, http.StatusBadGateway, "PARTIAL_COMMIT",
			"Campaign was created but AI nurture could not be started", details)
		return errors.As(err, &authErr)
	case errors.As(err, &validation):
		ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", validation.Message, validation.Fields)
	case errors.As(err, &authErr):
		Error(c, http.StatusUnauthorized, "AUTHENTICATION_FAILED", authErr.Error())
		return true
	case errors.As(err, &remote):
		Error(c, http.StatusBadGateway, "REMOTE_REQUEST_FAILED", remote.Message())
	default:
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		_ = c.Error(err)
	}
	return false
}
