package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/graphflix/internal/utils"
)

// GetMovie 电影详情（带演员/导演信息）
func (h *Handler) GetMovie(c *gin.Context) {
	id := c.Param("id")

	movie, err := h.Movies.GetMovie(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, movie)
}

// SearchMovies 按标题搜索电影
func (h *Handler) SearchMovies(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		utils.BadRequest(c, "搜索关键词不能为空")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	movies, err := h.Movies.Search(c.Request.Context(), title, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, movies)
}
