package handlers

import (
	"errors"
	"net/http"

	"hotelbook/services/api"
	"hotelbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError turns a service error into the shell's JSON error answer.
func respondError(c *gin.Context, err error) {
	var verr *utils.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{Message: verr.Message})
		return
	}

	var terr *api.TransportError
	if errors.As(err, &terr) {
		status := terr.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		getLogger(c).Debug("booking service call failed", zap.Int("status", terr.StatusCode), zap.Error(err))
		c.JSON(status, utils.ErrorResponse{Message: api.ErrorMessage(err)})
		return
	}

	getLogger(c).Error("request failed", zap.Error(err))
	utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", err.Error())
}

// redirectBody is returned where a browser would navigate next.
type redirectBody struct {
	Message  string `json:"message,omitempty"`
	Redirect string `json:"redirect"`
}
