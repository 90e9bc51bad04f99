package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/user/moviedash/internal/model"
	"github.com/user/moviedash/internal/repository"
	"github.com/user/moviedash/internal/utils"
)

// classifyPrompt 发给 LLM 的分类指令模板
const classifyPrompt = "Classify this movie summary into genres: %s. Only list the genres, separated by commas."

// ChatFunc 对话补全函数，便于测试时注入假实现
type ChatFunc func(ctx context.Context, host, model, prompt string) (string, error)

// ClassifyService 电影类型分类实验
// 随机抽一部带简介的电影，让 LLM 根据简介给出类型，
// 再与数据集自带的类型标签做对比
type ClassifyService struct {
	store *repository.Store
	host  string
	model string
	chat  ChatFunc
	cache *utils.ResultCache[model.ClassifyResult]
}

// NewClassifyService 创建分类服务
func NewClassifyService(store *repository.Store, host, llmModel string) *ClassifyService {
	return &ClassifyService{
		store: store,
		host:  host,
		model: llmModel,
		chat:  utils.ChatCompletion,
		// 简介不变，结果可长期复用
		cache: utils.NewResultCache[model.ClassifyResult](500, 24*time.Hour),
	}
}

// RandomMovie 随机抽取一部标题、类型、简介齐全的电影
func (s *ClassifyService) RandomMovie() (*model.ClassifyMovie, error) {
	if !s.store.MoviesLoaded() {
		return nil, &NotLoadedError{Table: "movie"}
	}

	candidates := s.store.ClassifyCandidates()
	if len(candidates) == 0 {
		return nil, fmt.Errorf("没有可用于分类的电影（需要标题、类型和简介齐全）")
	}

	i := candidates[rand.Intn(len(candidates))]
	return s.movieAt(i)
}

// MovieForClassify 按 ID 取分类实验用的电影
func (s *ClassifyService) MovieForClassify(id int64) (*model.ClassifyMovie, error) {
	if !s.store.MoviesLoaded() {
		return nil, &NotLoadedError{Table: "movie"}
	}

	_, i, ok := s.store.MovieByID(id)
	if !ok {
		return nil, &InvalidArgumentError{Name: "movie_id", Value: strconv.FormatInt(id, 10)}
	}
	return s.movieAt(i)
}

func (s *ClassifyService) movieAt(i int) (*model.ClassifyMovie, error) {
	m := s.store.Movie(i)
	summary, ok := s.store.PlotByMovieID(m.WikipediaID)
	if !ok {
		return nil, &InvalidArgumentError{Name: "movie_id", Value: strconv.FormatInt(m.WikipediaID, 10)}
	}

	genres := utils.MapValues(s.store.DeserializedGenres()[i])
	return &model.ClassifyMovie{
		WikipediaID:    m.WikipediaID,
		Title:          m.Title,
		Summary:        summary,
		DatabaseGenres: genres,
	}, nil
}

// Classify 调用 LLM 对指定电影的简介做类型分类，并与数据库标签对比
// 同一部电影的结果会被缓存，避免重复请求模型
func (s *ClassifyService) Classify(ctx context.Context, movieID int64) (*model.ClassifyResult, error) {
	key := strconv.FormatInt(movieID, 10)
	if cached, ok := s.cache.Get(key); ok {
		return &cached, nil
	}

	cm, err := s.MovieForClassify(movieID)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(classifyPrompt, cm.Summary)
	raw, err := s.chat(ctx, s.host, s.model, prompt)
	if err != nil {
		return nil, fmt.Errorf("LLM 分类请求失败: %w", err)
	}

	llmGenres := splitGenres(raw)

	// 大小写和首尾空白不参与匹配
	dbSet := make(map[string]string, len(cm.DatabaseGenres))
	for _, g := range cm.DatabaseGenres {
		dbSet[normalizeGenre(g)] = g
	}

	var matching []string
	seen := make(map[string]struct{})
	for _, g := range llmGenres {
		norm := normalizeGenre(g)
		if _, ok := dbSet[norm]; !ok {
			continue
		}
		if _, dup := seen[norm]; dup {
			continue
		}
		seen[norm] = struct{}{}
		matching = append(matching, dbSet[norm])
	}

	result := model.ClassifyResult{
		WikipediaID:    cm.WikipediaID,
		Title:          cm.Title,
		DatabaseGenres: cm.DatabaseGenres,
		LLMGenres:      llmGenres,
		Matching:       matching,
		RawResponse:    raw,
	}
	s.cache.Set(key, result)

	log.Printf("[分类] %s: 数据库 %d 个类型, LLM %d 个, 匹配 %d 个",
		cm.Title, len(cm.DatabaseGenres), len(llmGenres), len(matching))
	return &result, nil
}

// splitGenres 解析 LLM 返回的逗号分隔类型列表
// 推理模型会带 <think> 段落，先剥掉再按逗号切分
func splitGenres(raw string) []string {
	if i := strings.LastIndex(raw, "</think>"); i >= 0 {
		raw = raw[i+len("</think>"):]
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// normalizeGenre 归一化类型名用于匹配
func normalizeGenre(g string) string {
	return strings.ToLower(strings.TrimSpace(g))
}
