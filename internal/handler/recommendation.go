package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/graphflix/internal/middleware"
	"github.com/user/graphflix/internal/model"
	"github.com/user/graphflix/internal/utils"
)

// GetPersonalized 个性化推荐（评分不足的新用户自动回退到热门）
func (h *Handler) GetPersonalized(c *gin.Context) {
	email := middleware.GetUserEmail(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	movies, err := h.Recommendation.GetPersonalized(c.Request.Context(), email, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, model.RecommendationResponse{Movies: movies})
}

// GetTrending 热门推荐
func (h *Handler) GetTrending(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	movies, err := h.Recommendation.GetTrending(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, model.RecommendationResponse{Movies: movies})
}
