package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/graphflix/internal/middleware"
	"github.com/user/graphflix/internal/utils"
)

// AddWatchlistRequest 添加想看清单请求
type AddWatchlistRequest struct {
	MovieID string `json:"movieId" binding:"required"`
}

// AddToWatchlist 添加电影到想看清单（重复添加返回已有条目）
func (h *Handler) AddToWatchlist(c *gin.Context) {
	var req AddWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	email := middleware.GetUserEmail(c)
	item, err := h.Watchlist.Add(c.Request.Context(), email, req.MovieID)
	if err != nil {
		if item != nil {
			utils.InternalServerError(c, err.Error())
			return
		}
		respondError(c, err)
		return
	}

	utils.Created(c, item)
}

// RemoveFromWatchlist 从想看清单移除电影
func (h *Handler) RemoveFromWatchlist(c *gin.Context) {
	email := middleware.GetUserEmail(c)
	movieID := c.Param("movieId")

	if err := h.Watchlist.Remove(c.Request.Context(), email, movieID); err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, nil)
}

// GetWatchlist 分页查询想看清单
func (h *Handler) GetWatchlist(c *gin.Context) {
	email := middleware.GetUserEmail(c)
	page, size := pageParams(c)

	result, err := h.Watchlist.List(email, page, size)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, result)
}

// CountWatchlist 想看清单条数
func (h *Handler) CountWatchlist(c *gin.Context) {
	email := middleware.GetUserEmail(c)

	count, err := h.Watchlist.Count(email)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, gin.H{"count": count})
}

// CheckWatchlist 判断电影是否在想看清单中
func (h *Handler) CheckWatchlist(c *gin.Context) {
	email := middleware.GetUserEmail(c)
	movieID := c.Param("movieId")

	exists, err := h.Watchlist.Contains(email, movieID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, gin.H{"inWatchlist": exists})
}
