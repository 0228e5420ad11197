package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/errors"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/logger"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/middleware"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/userdata"
)

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// parsePathID returns a non-empty path parameter.
func parsePathID(c *gin.Context, param string) (string, error) {
	id := strings.TrimSpace(c.Param(param))
	if id == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// RequireCurrentUser rejects requests whose token belongs to someone other
// than the user loaded in the data context.
func RequireCurrentUser(data userdata.DataContext) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenUser := c.GetString(middleware.UserIDKey)
		if tokenUser == "" {
			c.Next()
			return
		}
		if current := data.Status().UserID; current != "" && current != tokenUser {
			respondWithError(c, apperrors.ErrAccessDenied)
			c.Abort()
			return
		}
		c.Next()
	}
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, ErrorResponse{Error: ErrorDetail{Code: appErr.Code, Message: appErr.Message}})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{
		Code:    apperrors.ErrInternalServer.Code,
		Message: apperrors.ErrInternalServer.Message,
	}})
}

func bindError(err error) error {
	return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
}
