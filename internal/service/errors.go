package service

import "errors"

// 服务层错误，handler 按此映射 HTTP 状态码。
// 查找类错误不重试，直接以 404 返回；事件发布失败以 500 返回，
// 但不回滚已经落库的写入。
var (
	ErrUserNotFound      = errors.New("用户不存在")
	ErrMovieNotFound     = errors.New("电影不存在")
	ErrRatingNotFound    = errors.New("评分不存在")
	ErrWatchlistNotFound = errors.New("想看清单中没有这部电影")
	ErrEventPublishing   = errors.New("事件发布失败")
	ErrValidation        = errors.New("参数校验失败")
)
