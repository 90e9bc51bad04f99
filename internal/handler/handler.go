package handler

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/user/moviedash/internal/config"
	"github.com/user/moviedash/internal/model"
	"github.com/user/moviedash/internal/repository"
	"github.com/user/moviedash/internal/service"
)

// Handler HTTP 处理器
type Handler struct {
	Config   *config.Config
	Stats    *service.StatsService
	Classify *service.ClassifyService
}

// NewHandler 创建处理器
func NewHandler(cfg *config.Config, store *repository.Store) *Handler {
	return &Handler{
		Config:   cfg,
		Stats:    service.NewStatsService(store),
		Classify: service.NewClassifyService(store, cfg.OllamaHost, cfg.OllamaModel),
	}
}

// RenderData 统一封装公共渲染数据
func (h *Handler) RenderData(c *gin.Context, data gin.H) gin.H {
	res := gin.H{
		"SiteName": h.Config.SiteName,
		"SiteUrl":  h.Config.SiteUrl,
		"Path":     c.Request.URL.Path,
	}

	// 菜单高亮逻辑
	res["ActiveMenu"] = getActiveMenu(c.Request.URL.Path)

	// 合并传入的数据
	for k, v := range data {
		res[k] = v
	}

	return res
}

// getActiveMenu 根据路径判断当前高亮菜单
func getActiveMenu(path string) string {
	switch path {
	case "/":
		return "home"
	case "/chronology":
		return "chronology"
	case "/classification":
		return "classification"
	default:
		return ""
	}
}

// ==================== 页面 ====================

// Home 首页：类型排行、演员数量直方图、身高分布
func (h *Handler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", h.RenderData(c, gin.H{
		"Title":   h.Config.SiteName + " - 电影数据分析",
		"Genders": h.Stats.AcceptedGenders(),
	}))
}

// Chronology 时间线页：上映年份分布、演员出生分布
func (h *Handler) Chronology(c *gin.Context) {
	c.HTML(http.StatusOK, "chronology.html", h.RenderData(c, gin.H{
		"Title":  h.Config.SiteName + " - 时间线",
		"Genres": h.Stats.AcceptedGenres(),
	}))
}

// Classification 分类实验页
// 选中的电影存入 Session，刷新页面保持同一部，点击换一部时重新抽取
func (h *Handler) Classification(c *gin.Context) {
	session := sessions.Default(c)

	var movie *model.ClassifyMovie
	var err error

	if c.Query("shuffle") == "" {
		if v := session.Get("classify_movie_id"); v != nil {
			if id, ok := v.(int64); ok {
				movie, err = h.Classify.MovieForClassify(id)
			}
		}
	}
	if movie == nil || err != nil {
		movie, err = h.Classify.RandomMovie()
	}
	if err != nil {
		c.HTML(http.StatusServiceUnavailable, "404.html", h.RenderData(c, gin.H{
			"Title":   "数据未就绪",
			"Message": err.Error(),
		}))
		return
	}

	session.Set("classify_movie_id", movie.WikipediaID)
	// Session 保存失败不影响页面展示，只是刷新后会换一部电影
	_ = session.Save()

	c.HTML(http.StatusOK, "classification.html", h.RenderData(c, gin.H{
		"Title": h.Config.SiteName + " - 类型分类实验",
		"Movie": movie,
	}))
}
