package handler

import (
	"net/http"

	"github.com/JohnMarkCapones/Aralify-sub003/internal/service"
	"github.com/JohnMarkCapones/Aralify-sub003/pkg/response"
	"github.com/gin-gonic/gin"
)

type AchievementHandler struct {
	achievements *service.AchievementEvaluator
}

func NewAchievementHandler(achievements *service.AchievementEvaluator) *AchievementHandler {
	return &AchievementHandler{achievements: achievements}
}

func (h *AchievementHandler) List(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	list, err := h.achievements.ListForUser(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": list})
}
