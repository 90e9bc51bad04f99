package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/moviedash/internal/model"
	"github.com/user/moviedash/internal/repository"
)

func f(v float64) *float64 { return &v }

// newTestStats 常规测试数据：4 部电影、5 条角色记录
func newTestStats() *StatsService {
	movies := model.MovieTable{
		{WikipediaID: 1, Title: "Alpha", ReleaseDate: "1995-06-01", Genres: `{"/m/07s9rl0": "Drama", "/m/01z4y": "Comedy"}`},
		{WikipediaID: 2, Title: "Beta", ReleaseDate: "1995", Genres: `{"/m/07s9rl0": "Drama"}`},
		{WikipediaID: 3, Title: "Gamma", ReleaseDate: "2003-01-01", Genres: `{"/m/07s9rl0": "Drama", "/m/01jfsb": "Thriller"}`},
		{WikipediaID: 4, Title: "Delta", ReleaseDate: "", Genres: `{"/m/01z4y": "Comedy"}`},
	}
	characters := model.CharacterTable{
		// 电影 1: x 出现两次 + y，去重后 2 个演员
		{WikipediaID: 1, ActorName: "x", ActorGender: "F", ActorHeight: f(1.62), ActorDOB: "1980-03-15"},
		{WikipediaID: 1, ActorName: "x", ActorGender: "F", ActorHeight: f(1.62), ActorDOB: "1980-03-15"},
		{WikipediaID: 1, ActorName: "y", ActorGender: "M", ActorHeight: f(2.0), ActorDOB: "1980-07-01"},
		// 电影 2: 单个演员，身高缺失
		{WikipediaID: 2, ActorName: "z", ActorGender: "M", ActorHeight: nil, ActorDOB: "1991-01-01"},
		// 出生日期缺失的行
		{WikipediaID: 3, ActorName: "w", ActorGender: "F", ActorHeight: f(1.45), ActorDOB: ""},
	}
	return NewStatsService(repository.NewStore(movies, characters, nil))
}

// ==================== MovieType ====================

func TestMovieTypeRanking(t *testing.T) {
	s := newTestStats()

	rows, err := s.MovieType(10)
	require.NoError(t, err)

	// Drama x3, Comedy x2, Thriller x1
	require.Len(t, rows, 3)
	assert.Equal(t, model.GenreCount{MovieType: "Drama", Count: 3}, rows[0])
	assert.Equal(t, model.GenreCount{MovieType: "Comedy", Count: 2}, rows[1])
	assert.Equal(t, model.GenreCount{MovieType: "Thriller", Count: 1}, rows[2])
}

func TestMovieTypeTruncation(t *testing.T) {
	s := newTestStats()

	rows, err := s.MovieType(2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Drama", rows[0].MovieType)
}

func TestMovieTypeRepeatable(t *testing.T) {
	s := newTestStats()

	// 重复调用必须得到完全相同的结果，派生列不允许污染原始表
	first, err := s.MovieType(10)
	require.NoError(t, err)
	second, err := s.MovieType(10)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMovieTypeTieBreakByFirstEncounter(t *testing.T) {
	movies := model.MovieTable{
		{WikipediaID: 1, Genres: `{"/m/1": "Western", "/m/2": "Noir"}`},
		{WikipediaID: 2, Genres: `{"/m/2": "Noir", "/m/1": "Western"}`},
	}
	s := NewStatsService(repository.NewStore(movies, nil, nil))

	rows, err := s.MovieType(10)
	require.NoError(t, err)
	// 并列时按首次出现顺序：Western 先于 Noir 出现
	assert.Equal(t, "Western", rows[0].MovieType)
	assert.Equal(t, "Noir", rows[1].MovieType)
}

func TestMovieTypeNonPositiveN(t *testing.T) {
	s := newTestStats()

	// 未定义行为取空结果
	rows, err := s.MovieType(0)
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = s.MovieType(-5)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMovieTypeNotLoaded(t *testing.T) {
	s := NewStatsService(repository.NewStore(nil, nil, nil))

	_, err := s.MovieType(10)
	var notLoaded *NotLoadedError
	require.ErrorAs(t, err, &notLoaded)
}

// ==================== ActorCount ====================

func TestActorCountHistogram(t *testing.T) {
	s := newTestStats()

	rows, err := s.ActorCount()
	require.NoError(t, err)

	// 电影 1 去重后 2 个演员，电影 2 和 3 各 1 个
	assert.Equal(t, []model.ActorCountBucket{
		{NumberOfActors: 1, MovieCount: 2},
		{NumberOfActors: 2, MovieCount: 1},
	}, rows)

	// 各桶电影数之和等于出现过角色记录的电影总数
	total := 0
	for _, b := range rows {
		total += b.MovieCount
	}
	assert.Equal(t, 3, total)
}

func TestActorCountNotLoaded(t *testing.T) {
	s := NewStatsService(repository.NewStore(model.MovieTable{}, nil, nil))

	_, err := s.ActorCount()
	var notLoaded *NotLoadedError
	require.ErrorAs(t, err, &notLoaded)
}

// ==================== ActorDistributions ====================

func TestActorDistributionsFilter(t *testing.T) {
	s := newTestStats()

	rows, _, err := s.ActorDistributions("All", 1.5, 2.0, false)
	require.NoError(t, err)

	// 区间两端都是闭区间，身高缺失的行被排除
	require.Len(t, rows, 3)
	for _, ch := range rows {
		require.NotNil(t, ch.ActorHeight)
		assert.GreaterOrEqual(t, *ch.ActorHeight, 1.5)
		assert.LessOrEqual(t, *ch.ActorHeight, 2.0)
	}
	// 2.0 恰好在上界，必须包含
	assert.Equal(t, "y", rows[2].ActorName)
}

func TestActorDistributionsGenderFilter(t *testing.T) {
	s := newTestStats()

	rows, _, err := s.ActorDistributions("M", 0.5, 3.0, false)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "y", rows[0].ActorName)
}

func TestActorDistributionsInvalidGender(t *testing.T) {
	s := newTestStats()

	_, _, err := s.ActorDistributions("Unknown", 1.5, 2.0, false)
	var invalid *InvalidArgumentError
	require.ErrorAs(t, err, &invalid)

	// 错误需要携带动态计算出的合法取值集合
	assert.Equal(t, []string{"All", "F", "M"}, invalid.Accepted)
}

func TestActorDistributionsInvalidRange(t *testing.T) {
	s := newTestStats()

	_, _, err := s.ActorDistributions("All", 2.0, 1.5, false)
	var rng *InvalidRangeError
	require.ErrorAs(t, err, &rng)
}

func TestActorDistributionsHistogram(t *testing.T) {
	s := newTestStats()

	_, hist, err := s.ActorDistributions("All", 1.0, 3.0, true)
	require.NoError(t, err)
	require.NotEmpty(t, hist)

	total := 0
	for _, b := range hist {
		total += b.Count
	}
	assert.Equal(t, 4, total)

	// plot=false 时不产出直方图
	_, hist, err = s.ActorDistributions("All", 1.0, 3.0, false)
	require.NoError(t, err)
	assert.Nil(t, hist)
}

// ==================== Releases ====================

func TestReleasesTimeline(t *testing.T) {
	s := newTestStats()

	rows, err := s.Releases("")
	require.NoError(t, err)

	// 上映日期缺失的电影 4 被丢弃；"1995" 这种只有年份的日期也有效
	assert.Equal(t, []model.YearCount{
		{Year: 1995, MovieCount: 2},
		{Year: 2003, MovieCount: 1},
	}, rows)
}

func TestReleasesGenreFilter(t *testing.T) {
	s := newTestStats()

	rows, err := s.Releases("Drama")
	require.NoError(t, err)
	assert.Equal(t, []model.YearCount{
		{Year: 1995, MovieCount: 2},
		{Year: 2003, MovieCount: 1},
	}, rows)

	rows, err = s.Releases("Thriller")
	require.NoError(t, err)
	assert.Equal(t, []model.YearCount{{Year: 2003, MovieCount: 1}}, rows)
}

func TestReleasesUnknownGenre(t *testing.T) {
	s := newTestStats()

	_, err := s.Releases("Romance Film")
	var invalid *InvalidArgumentError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Accepted, "Drama")
}

func TestReleasesMalformedDate(t *testing.T) {
	movies := model.MovieTable{
		{WikipediaID: 1, ReleaseDate: "19xx-01-01", Genres: "{}"},
	}
	s := NewStatsService(repository.NewStore(movies, nil, nil))

	_, err := s.Releases("")
	var bad *MalformedDateError
	require.ErrorAs(t, err, &bad)
	assert.Contains(t, bad.Error(), "19xx-01-01")
}

func TestReleasesRepeatable(t *testing.T) {
	s := newTestStats()

	// 带类型过滤的查询也不允许污染共享表
	first, err := s.Releases("Drama")
	require.NoError(t, err)
	second, err := s.Releases("Drama")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	all, err := s.Releases("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// ==================== Ages ====================

func TestAgesByYear(t *testing.T) {
	s := newTestStats()

	result, err := s.Ages("Y")
	require.NoError(t, err)

	assert.Equal(t, "Year", result.Label)
	// 1980 出生 3 条记录（x 两条 + y），1991 一条；DOB 缺失的行被丢弃
	assert.Equal(t, []model.BirthCount{
		{Period: 1980, Count: 3},
		{Period: 1991, Count: 1},
	}, result.Rows)
}

func TestAgesByMonth(t *testing.T) {
	s := newTestStats()

	result, err := s.Ages("M")
	require.NoError(t, err)

	assert.Equal(t, "Month", result.Label)
	assert.Equal(t, []model.BirthCount{
		{Period: 1, Count: 1},
		{Period: 3, Count: 2},
		{Period: 7, Count: 1},
	}, result.Rows)
}

func TestAgesInvalidUnitFallsBackToYear(t *testing.T) {
	s := newTestStats()

	// 非法 unit 静默回退到按年，不报错
	fallback, err := s.Ages("X")
	require.NoError(t, err)
	byYear, err := s.Ages("Y")
	require.NoError(t, err)
	assert.Equal(t, byYear, fallback)
}

func TestAgesSkipsNonNumericYears(t *testing.T) {
	characters := model.CharacterTable{
		{WikipediaID: 1, ActorName: "a", ActorDOB: "19??-01-01"},
		{WikipediaID: 1, ActorName: "b", ActorDOB: "1980-01-01"},
	}
	s := NewStatsService(repository.NewStore(nil, characters, nil))

	result, err := s.Ages("Y")
	require.NoError(t, err)
	assert.Equal(t, []model.BirthCount{{Period: 1980, Count: 1}}, result.Rows)
}

// ==================== 取值集合 ====================

func TestAcceptedSets(t *testing.T) {
	s := newTestStats()

	assert.Equal(t, []string{"All", "F", "M"}, s.AcceptedGenders())
	assert.Equal(t, []string{"Comedy", "Drama", "Thriller"}, s.AcceptedGenres())
}
