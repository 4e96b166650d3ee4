package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/graphflix/internal/middleware"
	"github.com/user/graphflix/internal/utils"
)

// CreateRatingRequest 评分提交请求
type CreateRatingRequest struct {
	MovieID string `json:"movieId" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=10"`
	Comment string `json:"comment" binding:"max=500"`
}

// UpdateRatingRequest 评分更新请求
type UpdateRatingRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=10"`
	Comment string `json:"comment" binding:"max=500"`
}

// CreateRating 提交评分（同一电影重复提交按更新处理）
func (h *Handler) CreateRating(c *gin.Context) {
	var req CreateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	email := middleware.GetUserEmail(c)
	rating, err := h.Ratings.UpsertRating(c.Request.Context(), email, req.MovieID, req.Rating, req.Comment)
	if err != nil {
		// 事件发布失败时记录已落库，一并返回
		if rating != nil {
			utils.InternalServerError(c, err.Error())
			return
		}
		respondError(c, err)
		return
	}

	utils.Created(c, rating)
}

// UpdateRating 更新评分
func (h *Handler) UpdateRating(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "评分 ID 无效")
		return
	}

	var req UpdateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	rating, err := h.Ratings.UpdateRating(c.Request.Context(), id, req.Rating, req.Comment)
	if err != nil {
		if rating != nil {
			utils.InternalServerError(c, err.Error())
			return
		}
		respondError(c, err)
		return
	}

	utils.Success(c, rating)
}

// DeleteRating 删除评分
func (h *Handler) DeleteRating(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "评分 ID 无效")
		return
	}

	if err := h.Ratings.DeleteRating(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, nil)
}

// GetRating 查询评分详情
func (h *Handler) GetRating(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "评分 ID 无效")
		return
	}

	rating, err := h.Ratings.GetRating(id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, rating)
}

// GetMyRating 查询当前用户对某电影的评分
func (h *Handler) GetMyRating(c *gin.Context) {
	email := middleware.GetUserEmail(c)
	movieID := c.Param("movieId")

	rating, err := h.Ratings.GetUserRating(email, movieID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, rating)
}

// GetMovieRatings 分页查询某电影的评分
func (h *Handler) GetMovieRatings(c *gin.Context) {
	movieID := c.Param("movieId")
	page, size := pageParams(c)
	sortBy := c.DefaultQuery("sortBy", "timestamp")

	result, err := h.Ratings.GetMovieRatings(movieID, page, size, sortBy)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, result)
}

// GetMyRatings 分页查询当前用户的评分
func (h *Handler) GetMyRatings(c *gin.Context) {
	email := middleware.GetUserEmail(c)
	page, size := pageParams(c)
	sortBy := c.DefaultQuery("sortBy", "timestamp")

	result, err := h.Ratings.GetUserRatings(email, page, size, sortBy)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, result)
}

// GetAverageRating 查询电影平均分（无评分返回 0.0 / 0）
func (h *Handler) GetAverageRating(c *gin.Context) {
	movieID := c.Param("movieId")

	avg, err := h.Ratings.GetAverageRating(movieID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, avg)
}

// pageParams 读取分页查询参数，page 从 0 开始
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	return page, size
}
