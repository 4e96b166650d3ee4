package model

// Movie 电影模型（图数据库节点视图，对本系统只读）
type Movie struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Released int      `json:"released"`
	Tagline  string   `json:"tagline,omitempty"`
	Actors   []Person `json:"actors,omitempty"`
	Director []Person `json:"directors,omitempty"`
}

// Person 人物（导演/演员）
type Person struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Born int    `json:"born,omitempty"`
}

// RecommendedMovie 带推荐理由的电影
type RecommendedMovie struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Released int     `json:"released"`
	Tagline  string  `json:"tagline,omitempty"`
	Reason   string  `json:"reason"`
	Score    float64 `json:"score"`
}

// RecommendationResponse 推荐接口响应
type RecommendationResponse struct {
	Movies []RecommendedMovie `json:"movies"`
}
