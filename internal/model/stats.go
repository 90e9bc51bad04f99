package model

// GenreCount 类型排行结果行
type GenreCount struct {
	MovieType string `json:"movie_type"` // 类型显示名
	Count     int    `json:"count"`      // 出现次数
}

// ActorCountBucket 演员数量直方图结果行
type ActorCountBucket struct {
	NumberOfActors int `json:"number_of_actors"` // 单部电影去重后的演员数
	MovieCount     int `json:"movie_count"`      // 拥有该演员数的电影数
}

// HeightBucket 身高直方图桶（仅在请求绘图时计算）
type HeightBucket struct {
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Count int     `json:"count"`
}

// YearCount 上映时间线结果行
type YearCount struct {
	Year       int `json:"year"`
	MovieCount int `json:"movie_count"`
}

// BirthCount 出生日期直方图结果行
type BirthCount struct {
	Period int `json:"period"` // 年份或月份，含义见 AgesResult.Label
	Count  int `json:"birth_count"`
}

// AgesResult 出生日期直方图，Label 随统计单位变化（"Year" 或 "Month"）
type AgesResult struct {
	Unit  string       `json:"unit"`
	Label string       `json:"label"`
	Rows  []BirthCount `json:"rows"`
}

// ClassifyMovie 参与分类实验的电影（标题 + 简介 + 数据库类型标签）
type ClassifyMovie struct {
	WikipediaID    int64    `json:"wikipedia_movie_id"`
	Title          string   `json:"title"`
	Summary        string   `json:"plot_summary"`
	DatabaseGenres []string `json:"database_genres"`
}

// ClassifyResult LLM 分类结果与数据库标签的对比
type ClassifyResult struct {
	WikipediaID    int64    `json:"wikipedia_movie_id"`
	Title          string   `json:"title"`
	DatabaseGenres []string `json:"database_genres"`
	LLMGenres      []string `json:"llm_genres"`
	Matching       []string `json:"matching_genres"`
	RawResponse    string   `json:"raw_response"`
}
