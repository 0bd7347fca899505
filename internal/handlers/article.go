package handlers

import (
	"errors"
	"time"

	"newsapi/internal/apperr"
	"newsapi/internal/cache"
	"newsapi/internal/middleware"
	"newsapi/internal/models"
	"newsapi/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	articleListCacheKey = "article:list:first"
	articleListCacheTTL = 1 * time.Minute
)

type ArticleHandler struct {
	db     *gorm.DB
	cache  cache.Cache
	logger *zap.Logger
}

func NewArticleHandler(gdb *gorm.DB, store cache.Cache, logger *zap.Logger) *ArticleHandler {
	return &ArticleHandler{db: gdb, cache: store, logger: logger}
}

type articleCreateRequest struct {
	Title    string   `json:"title" binding:"required"`
	Content  string   `json:"content" binding:"required"`
	Category string   `json:"category" binding:"required"`
	Tags     []string `json:"tags"`
	Status   string   `json:"status"`
}

func (h *ArticleHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req articleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, apperr.InvalidInput("请求参数错误"))
		return
	}
	if req.Status == "" {
		req.Status = string(models.ArticleDraft)
	}
	if req.Status != string(models.ArticleDraft) && req.Status != string(models.ArticlePublished) {
		Fail(c, apperr.InvalidInput("无效的文章状态"))
		return
	}

	var existing models.Article
	if err := h.db.Where("title = ?", req.Title).First(&existing).Error; err == nil {
		Fail(c, apperr.Conflict("文章标题已存在"))
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		Fail(c, err)
		return
	}

	article := models.Article{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Tags:     req.Tags,
		Status:   models.ArticleStatus(req.Status),
		AuthorID: user.ID,
	}
	if err := h.db.Create(&article).Error; err != nil {
		Fail(c, err)
		return
	}

	h.invalidateList(c)
	OK(c, article)
}

type articlePage struct {
	Total   int64            `json:"total"`
	Items   []models.Article `json:"items"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
}

func (h *ArticleHandler) List(c *gin.Context) {
	page, perPage := pageParams(c)
	category := c.Query("category")
	status := c.Query("status")
	search := c.Query("search")

	loader := func() (*articlePage, error) {
		return h.loadArticles(page, perPage, category, status, search)
	}

	// 只缓存无筛选条件的第一页（命中率最高的默认视图）
	if page == 1 && perPage == 10 && category == "" && status == "" && search == "" {
		result, err := cache.Remember(c.Request.Context(), h.cache, articleListCacheKey, articleListCacheTTL, loader)
		if err != nil {
			Fail(c, err)
			return
		}
		OK(c, result)
		return
	}

	result, err := loader()
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, result)
}

func (h *ArticleHandler) loadArticles(page, perPage int, category, status, search string) (*articlePage, error) {
	query := h.db.Model(&models.Article{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title LIKE ? OR content LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var articles []models.Article
	if err := query.
		Order("created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&articles).Error; err != nil {
		return nil, err
	}
	return &articlePage{Total: total, Items: articles, Page: page, PerPage: perPage}, nil
}

type articleDetail struct {
	models.Article
	ContentHTML string `json:"content_html"`
}

func (h *ArticleHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		Fail(c, apperr.InvalidInput("无效的文章ID"))
		return
	}

	var article models.Article
	if err := h.db.First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			Fail(c, apperr.NotFound("文章不存在"))
			return
		}
		Fail(c, err)
		return
	}

	// 浏览量在存储层原子自增，避免并发读丢失更新
	if err := h.db.Model(&article).UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
		Fail(c, err)
		return
	}
	article.Views++

	OK(c, articleDetail{Article: article, ContentHTML: utils.RenderMarkdown(article.Content)})
}

type articleUpdateRequest struct {
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	Category *string   `json:"category"`
	Tags     *[]string `json:"tags"`
	Status   *string   `json:"status"`
}

func (h *ArticleHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, ok := uintParam(c, "id")
	if !ok {
		Fail(c, apperr.InvalidInput("无效的文章ID"))
		return
	}

	var article models.Article
	if err := h.db.First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			Fail(c, apperr.NotFound("文章不存在"))
			return
		}
		Fail(c, err)
		return
	}
	if !user.CanModify(article.AuthorID) {
		Fail(c, apperr.Forbidden("没有权限更新此文章"))
		return
	}

	var req articleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, apperr.InvalidInput("请求参数错误"))
		return
	}

	// 改标题时检查新标题是否与其他文章冲突
	if req.Title != nil && *req.Title != article.Title {
		var existing models.Article
		err := h.db.Where("title = ?", *req.Title).First(&existing).Error
		if err == nil && existing.ID != article.ID {
			Fail(c, apperr.Conflict("文章标题已存在"))
			return
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			Fail(c, err)
			return
		}
		article.Title = *req.Title
	}
	if req.Content != nil {
		article.Content = *req.Content
	}
	if req.Category != nil {
		article.Category = *req.Category
	}
	if req.Tags != nil {
		article.Tags = *req.Tags
	}
	if req.Status != nil {
		if *req.Status != string(models.ArticleDraft) && *req.Status != string(models.ArticlePublished) {
			Fail(c, apperr.InvalidInput("无效的文章状态"))
			return
		}
		article.Status = models.ArticleStatus(*req.Status)
	}

	if err := h.db.Save(&article).Error; err != nil {
		Fail(c, err)
		return
	}

	h.invalidateList(c)
	OK(c, article)
}

func (h *ArticleHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, ok := uintParam(c, "id")
	if !ok {
		Fail(c, apperr.InvalidInput("无效的文章ID"))
		return
	}

	var article models.Article
	if err := h.db.First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			Fail(c, apperr.NotFound("文章不存在"))
			return
		}
		Fail(c, err)
		return
	}
	if !user.CanModify(article.AuthorID) {
		Fail(c, apperr.Forbidden("没有权限删除此文章"))
		return
	}

	// 删除文章时级联删除其全部评论
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", article.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&article).Error
	})
	if err != nil {
		Fail(c, err)
		return
	}

	h.invalidateList(c)
	OK(c, article)
}

func (h *ArticleHandler) invalidateList(c *gin.Context) {
	if err := h.cache.Delete(c.Request.Context(), articleListCacheKey); err != nil {
		h.logger.Warn("invalidate article list cache failed", zap.Error(err))
	}
}
