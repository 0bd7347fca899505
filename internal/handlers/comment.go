package handlers

import (
	"strconv"

	"newsapi/internal/apperr"
	"newsapi/internal/middleware"
	"newsapi/internal/services"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

type commentCreateRequest struct {
	Content   string `json:"content" binding:"required"`
	ArticleID uint   `json:"article_id" binding:"required"`
	ParentID  *uint  `json:"parent_id"`
}

func (h *CommentHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req commentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, apperr.InvalidInput("请求参数错误"))
		return
	}

	comment, err := h.comments.Create(req.ArticleID, req.Content, req.ParentID, user.ID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, comment)
}

// ListByArticle 获取文章评论。不带 parent_id 时返回顶层评论及回复预览，
// 带 parent_id 时返回该评论的回复。
func (h *CommentHandler) ListByArticle(c *gin.Context) {
	articleID, ok := uintParam(c, "article_id")
	if !ok {
		Fail(c, apperr.InvalidInput("无效的文章ID"))
		return
	}

	var parentID *uint
	if p := c.Query("parent_id"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			Fail(c, apperr.InvalidInput("无效的父评论ID"))
			return
		}
		id := uint(n)
		parentID = &id
	}

	page, perPage := pageParams(c)
	result, err := h.comments.ListByArticle(articleID, parentID, page, perPage)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, result)
}

// ListAll 管理员查看所有评论
func (h *CommentHandler) ListAll(c *gin.Context) {
	page, perPage := pageParams(c)
	result, err := h.comments.ListAll(c.Query("status"), c.Query("content"), page, perPage)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, result)
}

func (h *CommentHandler) Review(c *gin.Context) {
	commentID, ok := uintParam(c, "comment_id")
	if !ok {
		Fail(c, apperr.InvalidInput("无效的评论ID"))
		return
	}

	comment, err := h.comments.Review(commentID, c.Query("status"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, comment)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)

	articleID, ok := uintParam(c, "article_id")
	if !ok {
		Fail(c, apperr.InvalidInput("无效的文章ID"))
		return
	}
	commentID, ok := uintParam(c, "comment_id")
	if !ok {
		Fail(c, apperr.InvalidInput("无效的评论ID"))
		return
	}

	comment, err := h.comments.Delete(articleID, commentID, user)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, comment)
}
