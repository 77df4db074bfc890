package handler

import (
	"net/http"
	"time"

	"github.com/JohnMarkCapones/Aralify-sub003/internal/service"
	"github.com/JohnMarkCapones/Aralify-sub003/pkg/response"
	"github.com/gin-gonic/gin"
)

type StreakHandler struct {
	streaks *service.StreakTracker
}

func NewStreakHandler(streaks *service.StreakTracker) *StreakHandler {
	return &StreakHandler{streaks: streaks}
}

// CheckIn records today's activity for the streak.
func (h *StreakHandler) CheckIn(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	result, err := h.streaks.RecordActivity(c.Request.Context(), userID, time.Now().UTC())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// ClaimDailyBonus grants the daily XP; repeat calls report already_claimed
// instead of failing.
func (h *StreakHandler) ClaimDailyBonus(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	result, err := h.streaks.ClaimDailyBonus(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *StreakHandler) GetSummary(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	summary, err := h.streaks.Summary(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}
