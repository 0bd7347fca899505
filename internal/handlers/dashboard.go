package handlers

import (
	"time"

	"newsapi/internal/cache"
	"newsapi/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	dashboardCacheKey = "dashboard:stats"
	dashboardCacheTTL = 1 * time.Minute
)

type DashboardHandler struct {
	db    *gorm.DB
	cache cache.Cache
}

func NewDashboardHandler(gdb *gorm.DB, store cache.Cache) *DashboardHandler {
	return &DashboardHandler{db: gdb, cache: store}
}

type trendData struct {
	Dates    []string `json:"dates"`
	Articles []int64  `json:"articles"`
	Comments []int64  `json:"comments"`
}

type dashboardStats struct {
	ArticleCount int64     `json:"article_count"`
	CommentCount int64     `json:"comment_count"`
	UserCount    int64     `json:"user_count"`
	TrendData    trendData `json:"trend_data"`
}

// Stats 仪表盘统计：总量 + 最近 7 天趋势
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := cache.Remember(c.Request.Context(), h.cache, dashboardCacheKey, dashboardCacheTTL, h.loadStats)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, stats)
}

func (h *DashboardHandler) loadStats() (*dashboardStats, error) {
	stats := &dashboardStats{}

	if err := h.db.Model(&models.Article{}).Count(&stats.ArticleCount).Error; err != nil {
		return nil, err
	}
	if err := h.db.Model(&models.Comment{}).Count(&stats.CommentCount).Error; err != nil {
		return nil, err
	}
	if err := h.db.Model(&models.User{}).Count(&stats.UserCount).Error; err != nil {
		return nil, err
	}

	today := startOfToday()
	for i := 6; i >= 0; i-- {
		dayStart := today.AddDate(0, 0, -i)
		dayEnd := dayStart.AddDate(0, 0, 1)
		stats.TrendData.Dates = append(stats.TrendData.Dates, dayStart.Format("2006-01-02"))

		var articleCount int64
		if err := h.db.Model(&models.Article{}).
			Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
			Count(&articleCount).Error; err != nil {
			return nil, err
		}
		stats.TrendData.Articles = append(stats.TrendData.Articles, articleCount)

		var commentCount int64
		if err := h.db.Model(&models.Comment{}).
			Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
			Count(&commentCount).Error; err != nil {
			return nil, err
		}
		stats.TrendData.Comments = append(stats.TrendData.Comments, commentCount)
	}
	return stats, nil
}
