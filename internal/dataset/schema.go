package dataset

// 数据集为无表头 TSV，schema 以固定列顺序显式声明，按位置赋值，
// 不从内容推断类型

// 预期的数据文件名
const (
	MovieFile     = "movie.metadata.tsv"
	CharacterFile = "character.metadata.tsv"
	PlotFile      = "plot_summaries.txt"
)

// movieColumns movie.metadata.tsv 的固定列顺序
var movieColumns = []string{
	"wikipedia_movie_id",
	"freebase_movie_id",
	"title",
	"release_date",
	"box_office_revenue",
	"runtime_min",
	"languages",
	"countries",
	"genres",
}

// characterColumns character.metadata.tsv 的固定列顺序
var characterColumns = []string{
	"wikipedia_movie_id",
	"freebase_movie_id",
	"movie_release_date",
	"character_name",
	"actor_date_of_birth",
	"actor_gender",
	"actor_height_in_meters",
	"actor_ethnicity_freebase_id",
	"actor_name",
	"actor_age_at_movie_release",
	"freebase_character_or_actor_map_id",
	"freebase_character_id",
	"freebase_actor_id",
}

// plotColumns plot_summaries.txt 的固定列顺序
var plotColumns = []string{
	"wikipedia_movie_id",
	"plot_summary",
}
