package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/user/graphflix/internal/config"
	"github.com/user/graphflix/internal/repository"
	"github.com/user/graphflix/internal/service"
	"github.com/user/graphflix/internal/utils"
)

// Handler HTTP 处理器
type Handler struct {
	Config         *config.Config
	Movies         *service.MovieService
	Ratings        *service.RatingService
	Watchlist      *service.WatchlistService
	Recommendation *service.RecommendationService
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config, publisher service.EventPublisher) *Handler {
	ratingEvents := service.NewRatingEventProducer(publisher, cfg.Topics)
	watchlistEvents := service.NewWatchlistEventProducer(publisher, cfg.Topics)

	return &Handler{
		Config:         cfg,
		Movies:         service.NewMovieService(repos.Movie),
		Ratings:        service.NewRatingService(repos.Rating, repos.User, repos.Movie, repos.Edge, ratingEvents),
		Watchlist:      service.NewWatchlistService(repos.Watchlist, repos.User, repos.Movie, repos.Edge, watchlistEvents),
		Recommendation: service.NewRecommendationService(repos.Recommendation, cfg),
	}
}

// respondError 服务层错误映射 HTTP 状态码
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrMovieNotFound),
		errors.Is(err, service.ErrRatingNotFound),
		errors.Is(err, service.ErrWatchlistNotFound):
		utils.NotFound(c, err.Error())
	case errors.Is(err, service.ErrValidation):
		utils.BadRequest(c, err.Error())
	default:
		utils.InternalServerError(c, err.Error())
	}
}
