package model

// Movie 电影元数据（movie.metadata.tsv 中的一行）
// 数据源为无表头的 TSV，列顺序固定，按位置解析
type Movie struct {
	WikipediaID int64    `json:"wikipedia_movie_id"`
	FreebaseID  string   `json:"freebase_movie_id"`
	Title       string   `json:"title"`
	ReleaseDate string   `json:"release_date"` // 自由文本，可能只有年份，也可能为空
	BoxOffice   *float64 `json:"box_office_revenue"`
	RuntimeMin  *float64 `json:"runtime_min"`
	Languages   string   `json:"languages"` // 序列化映射字段（code -> 名称），使用前需解析
	Countries   string   `json:"countries"` // 同上
	Genres      string   `json:"genres"`    // 同上
}

// Character 角色/演员元数据（character.metadata.tsv 中的一行）
// 一行对应一次 (电影, 角色, 演员) 出演记录
type Character struct {
	WikipediaID      int64    `json:"wikipedia_movie_id"`
	FreebaseID       string   `json:"freebase_movie_id"`
	MovieReleaseDate string   `json:"movie_release_date"`
	CharacterName    string   `json:"character_name"`
	ActorDOB         string   `json:"actor_date_of_birth"` // 自由文本，可能不完整
	ActorGender      string   `json:"actor_gender"`        // 可为空
	ActorHeight      *float64 `json:"actor_height_in_meters"`
	ActorEthnicity   string   `json:"actor_ethnicity_freebase_id"`
	ActorName        string   `json:"actor_name"`
	ActorAge         *float64 `json:"actor_age_at_movie_release"`
	FreebaseMapID    string   `json:"freebase_character_or_actor_map_id"`
	FreebaseCharID   string   `json:"freebase_character_id"`
	FreebaseActorID  string   `json:"freebase_actor_id"`
}

// PlotSummary 剧情简介（plot_summaries.txt 中的一行）
type PlotSummary struct {
	WikipediaID int64  `json:"wikipedia_movie_id"`
	Summary     string `json:"plot_summary"`
}

// MovieTable / CharacterTable / PlotSummaryTable 三张内存表
// 加载后即为不可变快照，生命周期内不做增删改
type (
	MovieTable       []Movie
	CharacterTable   []Character
	PlotSummaryTable []PlotSummary
)
