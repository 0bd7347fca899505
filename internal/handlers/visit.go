package handlers

import (
	"newsapi/internal/models"
	"newsapi/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type VisitHandler struct {
	db     *gorm.DB
	geo    *services.GeoService
	logger *zap.Logger
}

func NewVisitHandler(gdb *gorm.DB, geo *services.GeoService, logger *zap.Logger) *VisitHandler {
	return &VisitHandler{db: gdb, geo: geo, logger: logger}
}

type visitCreateRequest struct {
	Path string `json:"path"`
}

// Create 记录一次访问，地理位置查询失败不影响写入
func (h *VisitHandler) Create(c *gin.Context) {
	var req visitCreateRequest
	_ = c.ShouldBindJSON(&req)

	path := req.Path
	if path == "" {
		path = c.Request.URL.Path
	}
	userAgent := c.GetHeader("User-Agent")
	if userAgent == "" {
		userAgent = "Unknown"
	}

	ip := c.ClientIP()
	visit := models.Visit{
		IP:        ip,
		Location:  h.geo.Lookup(ip),
		UserAgent: userAgent,
		Path:      path,
	}
	if err := h.db.Create(&visit).Error; err != nil {
		h.logger.Error("record visit failed", zap.Error(err))
		Fail(c, err)
		return
	}
	OK(c, visit)
}

type visitTrendPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type visitStats struct {
	TotalVisits      int64             `json:"total_visits"`
	VisitsByLocation map[string]int64  `json:"visits_by_location"`
	VisitsByPath     map[string]int64  `json:"visits_by_path"`
	VisitsTrend      []visitTrendPoint `json:"visits_trend"`
}

// Stats 访问统计（仅管理员）
func (h *VisitHandler) Stats(c *gin.Context) {
	stats := visitStats{
		VisitsByLocation: make(map[string]int64),
		VisitsByPath:     make(map[string]int64),
	}

	if err := h.db.Model(&models.Visit{}).Count(&stats.TotalVisits).Error; err != nil {
		Fail(c, err)
		return
	}

	type groupCount struct {
		Key   string
		Count int64
	}

	var byLocation []groupCount
	if err := h.db.Model(&models.Visit{}).
		Select("location as key, COUNT(*) as count").
		Group("location").
		Scan(&byLocation).Error; err != nil {
		Fail(c, err)
		return
	}
	for _, row := range byLocation {
		stats.VisitsByLocation[row.Key] = row.Count
	}

	var byPath []groupCount
	if err := h.db.Model(&models.Visit{}).
		Select("path as key, COUNT(*) as count").
		Group("path").
		Scan(&byPath).Error; err != nil {
		Fail(c, err)
		return
	}
	for _, row := range byPath {
		stats.VisitsByPath[row.Key] = row.Count
	}

	today := startOfToday()
	for i := 6; i >= 0; i-- {
		dayStart := today.AddDate(0, 0, -i)
		dayEnd := dayStart.AddDate(0, 0, 1)

		var count int64
		if err := h.db.Model(&models.Visit{}).
			Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
			Count(&count).Error; err != nil {
			Fail(c, err)
			return
		}
		stats.VisitsTrend = append(stats.VisitsTrend, visitTrendPoint{
			Date:  dayStart.Format("2006-01-02"),
			Count: count,
		})
	}

	OK(c, stats)
}
