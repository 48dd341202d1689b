package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	profileUC "github.com/khoahotran/volc-friends/internal/application/usecase/profile"
	"github.com/khoahotran/volc-friends/pkg/apperror"
	"github.com/khoahotran/volc-friends/pkg/logger"
)

type ProfileHandler struct {
	getProfileUC    *profileUC.GetProfileUseCase
	updateProfileUC *profileUC.UpdateProfileUseCase
	logger          logger.Logger
}

func NewProfileHandler(getUC *profileUC.GetProfileUseCase, updateUC *profileUC.UpdateProfileUseCase, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		getProfileUC:    getUC,
		updateProfileUC: updateUC,
		logger:          log,
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("user id not found in context", nil))
		return
	}

	output, err := h.getProfileUC.Execute(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": output.User})
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("user id not found in context", nil))
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for profile update", err))
		return
	}

	output, err := h.updateProfileUC.Execute(c.Request.Context(), profileUC.UpdateProfileInput{
		UserID: userID,
		Fields: req.ToFields(),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": output.User})
}
