package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/graphflix/internal/handler"
	"github.com/user/graphflix/internal/middleware"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// ==================== 公开接口 ====================
	api.GET("/movies/search", h.SearchMovies)
	api.GET("/movies/:id", h.GetMovie)
	api.GET("/ratings/movie/:movieId", h.GetMovieRatings)
	api.GET("/ratings/movie/:movieId/average", h.GetAverageRating)
	api.GET("/recommendations/trending", h.GetTrending)

	// ==================== 需要登录 ====================
	authed := api.Group("")
	authed.Use(middleware.RequireAuth(h.Config.AppSecret))
	{
		authed.GET("/recommendations/personalized", h.GetPersonalized)

		authed.POST("/ratings", h.CreateRating)
		authed.GET("/ratings/:id", h.GetRating)
		authed.PUT("/ratings/:id", h.UpdateRating)
		authed.DELETE("/ratings/:id", h.DeleteRating)
		authed.GET("/ratings/me", h.GetMyRatings)
		authed.GET("/ratings/me/movie/:movieId", h.GetMyRating)

		authed.GET("/watchlist", h.GetWatchlist)
		authed.POST("/watchlist", h.AddToWatchlist)
		authed.DELETE("/watchlist/:movieId", h.RemoveFromWatchlist)
		authed.GET("/watchlist/check/:movieId", h.CheckWatchlist)
		authed.GET("/watchlist/count", h.CountWatchlist)
	}
}
