package handler

import (
	"errors"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/user/moviedash/internal/service"
	"github.com/user/moviedash/internal/utils"
)

// ==================== 图表数据 API ====================

// StatsGenres GET /api/stats/genres?n=10
func (h *Handler) StatsGenres(c *gin.Context) {
	n, err := strconv.Atoi(c.DefaultQuery("n", "10"))
	if err != nil {
		utils.BadRequest(c, "参数 n 必须是整数")
		return
	}

	rows, err := h.Stats.MovieType(n)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, rows)
}

// StatsActorCount GET /api/stats/actor-count
func (h *Handler) StatsActorCount(c *gin.Context) {
	rows, err := h.Stats.ActorCount()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, rows)
}

// StatsHeights GET /api/stats/heights?gender=All&min=1.5&max=2.0&plot=true
func (h *Handler) StatsHeights(c *gin.Context) {
	gender := c.DefaultQuery("gender", "All")

	minH, err := strconv.ParseFloat(c.DefaultQuery("min", "1.5"), 64)
	if err != nil {
		utils.BadRequest(c, "参数 min 必须是数值")
		return
	}
	maxH, err := strconv.ParseFloat(c.DefaultQuery("max", "2.0"), 64)
	if err != nil {
		utils.BadRequest(c, "参数 max 必须是数值")
		return
	}
	plot := c.DefaultQuery("plot", "true") == "true"

	rows, hist, err := h.Stats.ActorDistributions(gender, minH, maxH, plot)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{
		"rows":      rows,
		"histogram": hist,
		"total":     len(rows),
	})
}

// StatsReleases GET /api/stats/releases?genre=Drama
func (h *Handler) StatsReleases(c *gin.Context) {
	rows, err := h.Stats.Releases(c.Query("genre"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, rows)
}

// StatsAges GET /api/stats/ages?unit=Y
func (h *Handler) StatsAges(c *gin.Context) {
	result, err := h.Stats.Ages(c.DefaultQuery("unit", "Y"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, result)
}

// ==================== 分类 API ====================

// ClassifyMovie POST /api/classify/:id
// 调用 LLM 对指定电影做类型分类，返回与数据库标签的对比结果
func (h *Handler) ClassifyMovie(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "电影 ID 必须是整数")
		return
	}

	result, err := h.Classify.Classify(c.Request.Context(), id)
	if err != nil {
		log.Printf("[分类] 失败 (电影 ID: %d): %v", id, err)
		respondError(c, err)
		return
	}
	utils.Success(c, result)
}

// respondError 把服务层错误映射为 HTTP 状态码
func respondError(c *gin.Context, err error) {
	var (
		notLoaded  *service.NotLoadedError
		invalidArg *service.InvalidArgumentError
		invalidRng *service.InvalidRangeError
		badDate    *service.MalformedDateError
	)

	switch {
	case errors.As(err, &notLoaded):
		utils.ServiceUnavailable(c, err.Error())
	case errors.As(err, &invalidArg), errors.As(err, &invalidRng), errors.As(err, &badDate):
		utils.BadRequest(c, err.Error())
	default:
		utils.InternalServerError(c, err.Error())
	}
}
