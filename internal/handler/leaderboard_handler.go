package handler

import (
	"net/http"
	"strconv"

	"github.com/JohnMarkCapones/Aralify-sub003/internal/service"
	"github.com/JohnMarkCapones/Aralify-sub003/pkg/response"
	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	leaderboard *service.LeaderboardService
}

func NewLeaderboardHandler(leaderboard *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard}
}

func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	limit := 10
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
	}

	entries, err := h.leaderboard.GetLeaderboard(c.Request.Context(), limit, c.Query("timeframe"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}
