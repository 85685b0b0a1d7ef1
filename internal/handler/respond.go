package handler

import (
	"errors"
	"net/http"

	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/apperrors"
	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/models"
	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error to the JSON envelope. Storage failures
// surface as server errors without leaking the underlying cause.
func respondError(c *gin.Context, err error) {
	var opErr *apperrors.Error
	if errors.As(err, &opErr) {
		switch opErr.Kind {
		case apperrors.KindValidation:
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, opErr.Message)
		case apperrors.KindNotFound:
			util.Error(c, http.StatusNotFound, util.CodeNotFound, opErr.Message)
		case apperrors.KindConflict:
			util.Error(c, http.StatusConflict, util.CodeConflict, opErr.Message)
		default:
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
		}
		return
	}
	util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
}

// currentUser pulls the authenticated user out of the context; nil when the
// auth middleware did not run.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get("currentUser")
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}
