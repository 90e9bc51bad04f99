package repository

import (
	"log"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/user/moviedash/internal/model"
	"github.com/user/moviedash/internal/utils"
)

// 派生视图缓存键
const (
	keyGenreView   = "derived:genres"
	keyGenreSet    = "derived:genre_set"
	keyGenderList  = "derived:genders"
	keyClassifyIdx = "derived:classify_candidates"
)

// Store 持有加载完成的三张内存表
// 表本身是不可变快照；所有派生列（解析后的类型映射、去重值集合）
// 单独缓存，绝不回写原始列，因此查询可以安全重复调用、并发读取
type Store struct {
	movies     model.MovieTable
	characters model.CharacterTable
	plots      model.PlotSummaryTable

	plotIndex  map[int64]string // wikipedia_movie_id -> 简介
	movieIndex map[int64]int    // wikipedia_movie_id -> 行下标

	derived *cache.Cache       // 派生视图，只计算一次
	sf      singleflight.Group // 防止并发重复计算同一视图
}

// NewStore 用加载完成的表构建仓库
func NewStore(movies model.MovieTable, characters model.CharacterTable, plots model.PlotSummaryTable) *Store {
	plotIndex := make(map[int64]string, len(plots))
	for _, p := range plots {
		plotIndex[p.WikipediaID] = p.Summary
	}

	movieIndex := make(map[int64]int, len(movies))
	for i, m := range movies {
		if _, ok := movieIndex[m.WikipediaID]; !ok {
			movieIndex[m.WikipediaID] = i
		}
	}

	return &Store{
		movies:     movies,
		characters: characters,
		plots:      plots,
		plotIndex:  plotIndex,
		movieIndex: movieIndex,
		// 表不会变化，派生视图永不过期
		derived: cache.New(cache.NoExpiration, 0),
	}
}

// MoviesLoaded 电影表是否已加载
func (s *Store) MoviesLoaded() bool { return s.movies != nil }

// CharactersLoaded 角色表是否已加载
func (s *Store) CharactersLoaded() bool { return s.characters != nil }

// Movies 电影表（仓库内部与查询层共享，调用方不得修改）
func (s *Store) Movies() model.MovieTable { return s.movies }

// Characters 角色表
func (s *Store) Characters() model.CharacterTable { return s.characters }

// PlotByMovieID 按电影 ID 查简介
func (s *Store) PlotByMovieID(id int64) (string, bool) {
	summary, ok := s.plotIndex[id]
	return summary, ok
}

// getOrCompute 读取派生视图，未命中时计算一次并缓存
// singleflight 保证并发首次访问时只有一个 goroutine 执行计算
func (s *Store) getOrCompute(key string, compute func() interface{}) interface{} {
	if v, ok := s.derived.Get(key); ok {
		return v
	}
	v, _, _ := s.sf.Do(key, func() (interface{}, error) {
		// 等待期间可能已被其他 goroutine 算完
		if v, ok := s.derived.Get(key); ok {
			return v, nil
		}
		v := compute()
		s.derived.Set(key, v, cache.NoExpiration)
		return v, nil
	})
	return v
}

// DeserializedGenres 解析后的类型映射派生列，与电影表行一一对应
// 原始 genres 列保持原文不动，解析结果只存在派生缓存里
// 解析失败的行按无类型处理（与旧版页面对损坏字段的容忍一致）
func (s *Store) DeserializedGenres() [][]utils.CodeName {
	v := s.getOrCompute(keyGenreView, func() interface{} {
		out := make([][]utils.CodeName, len(s.movies))
		bad := 0
		for i, m := range s.movies {
			pairs, err := utils.ParseCodeNameMap(m.Genres)
			if err != nil {
				bad++
				continue
			}
			out[i] = pairs
		}
		if bad > 0 {
			log.Printf("[仓库] %d 行 genres 字段无法解析，按无类型处理", bad)
		}
		return out
	})
	return v.([][]utils.CodeName)
}

// GenreSet 数据集中出现过的全部类型显示名（动态集合，不做硬编码枚举）
func (s *Store) GenreSet() map[string]struct{} {
	v := s.getOrCompute(keyGenreSet, func() interface{} {
		set := make(map[string]struct{})
		for _, pairs := range s.DeserializedGenres() {
			for _, p := range pairs {
				set[p.Name] = struct{}{}
			}
		}
		return set
	})
	return v.(map[string]struct{})
}

// DistinctGenders 角色表中出现过的非空性别值，按首次出现顺序
func (s *Store) DistinctGenders() []string {
	v := s.getOrCompute(keyGenderList, func() interface{} {
		seen := make(map[string]struct{})
		var out []string
		for _, ch := range s.characters {
			if ch.ActorGender == "" {
				continue
			}
			if _, ok := seen[ch.ActorGender]; ok {
				continue
			}
			seen[ch.ActorGender] = struct{}{}
			out = append(out, ch.ActorGender)
		}
		return out
	})
	return v.([]string)
}

// ClassifyCandidates 可参与分类实验的电影行下标
// 要求标题、类型标签和剧情简介齐全
func (s *Store) ClassifyCandidates() []int {
	v := s.getOrCompute(keyClassifyIdx, func() interface{} {
		genres := s.DeserializedGenres()
		var out []int
		for i, m := range s.movies {
			if m.Title == "" || len(genres[i]) == 0 {
				continue
			}
			if _, ok := s.plotIndex[m.WikipediaID]; !ok {
				continue
			}
			out = append(out, i)
		}
		return out
	})
	return v.([]int)
}

// Movie 按行下标取电影
func (s *Store) Movie(i int) model.Movie { return s.movies[i] }

// MovieByID 按电影 ID 取电影及其行下标
func (s *Store) MovieByID(id int64) (model.Movie, int, bool) {
	i, ok := s.movieIndex[id]
	if !ok {
		return model.Movie{}, 0, false
	}
	return s.movies[i], i, true
}
