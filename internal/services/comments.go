package services

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"newsapi/internal/apperr"
	"newsapi/internal/models"

	"gorm.io/gorm"
)

// 顶层评论附带的最新回复条数
const replyPreviewLimit = 5

const maxCommentLength = 500

// CommentService 评论树的核心逻辑：一级嵌套约束、回复预览、审核与级联删除
type CommentService struct {
	db *gorm.DB
}

func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

type CommentPage struct {
	Total   int64            `json:"total"`
	Items   []models.Comment `json:"items"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
}

// Create 创建评论或回复。回复的父评论必须存在、属于同一篇文章且本身是顶层评论。
func (s *CommentService) Create(articleID uint, content string, parentID *uint, userID uint) (*models.Comment, error) {
	if content == "" {
		return nil, apperr.InvalidInput("评论内容不能为空")
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		return nil, apperr.InvalidInput("评论内容不能超过500字")
	}

	if err := s.checkArticle(articleID); err != nil {
		return nil, err
	}

	if parentID != nil {
		var parent models.Comment
		if err := s.db.First(&parent, *parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("父评论不存在")
			}
			return nil, err
		}
		if parent.ArticleID != articleID {
			return nil, apperr.InvalidState("父评论不属于该文章")
		}
		if parent.ParentID != nil {
			return nil, apperr.InvalidState("不支持嵌套回复")
		}
	}

	comment := models.Comment{
		Content:   content,
		ArticleID: articleID,
		UserID:    userID,
		ParentID:  parentID,
		Status:    models.CommentPending,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByArticle 获取文章的评论。parentID 为空时返回顶层评论并附带回复预览和回复总数，
// 否则返回指定父评论的回复（不再嵌套预览）。
func (s *CommentService) ListByArticle(articleID uint, parentID *uint, page, perPage int) (*CommentPage, error) {
	if err := s.checkArticle(articleID); err != nil {
		return nil, err
	}

	if parentID != nil {
		var parent models.Comment
		if err := s.db.First(&parent, *parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("父评论不存在")
			}
			return nil, err
		}
		if parent.ArticleID != articleID {
			return nil, apperr.InvalidState("父评论不属于该文章")
		}
	}

	query := s.db.Model(&models.Comment{}).Where("article_id = ?", articleID)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var comments []models.Comment
	if err := query.
		Order("created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&comments).Error; err != nil {
		return nil, err
	}

	// 只为顶层评论填充回复信息
	if parentID == nil {
		if err := s.fillReplies(comments); err != nil {
			return nil, err
		}
	}

	return &CommentPage{Total: total, Items: comments, Page: page, PerPage: perPage}, nil
}

// fillReplies 填充每条顶层评论的最新回复预览和回复总数，
// 总数用单次 GROUP BY 批量统计
func (s *CommentService) fillReplies(comments []models.Comment) error {
	if len(comments) == 0 {
		return nil
	}

	parentIDs := make([]uint, len(comments))
	for i, c := range comments {
		parentIDs[i] = c.ID
	}

	// 回复总数：单次 GROUP BY，而不是逐条 COUNT
	type countResult struct {
		ParentID uint
		Count    int64
	}
	var counts []countResult
	if err := s.db.Model(&models.Comment{}).
		Select("parent_id, COUNT(*) as count").
		Where("parent_id IN ?", parentIDs).
		Group("parent_id").
		Scan(&counts).Error; err != nil {
		return err
	}
	countMap := make(map[uint]int64, len(counts))
	for _, r := range counts {
		countMap[r.ParentID] = r.Count
	}

	// 预览逐父评论取最新 N 条，行数有上界，不随回复总量增长
	for i := range comments {
		if countMap[comments[i].ID] == 0 {
			comments[i].ReplyCount = 0
			continue
		}
		var replies []models.Comment
		if err := s.db.
			Where("parent_id = ?", comments[i].ID).
			Order("created_at DESC").
			Limit(replyPreviewLimit).
			Find(&replies).Error; err != nil {
			return err
		}
		comments[i].Replies = replies
		comments[i].ReplyCount = countMap[comments[i].ID]
	}
	return nil
}

// ListAll 管理员获取所有评论，支持按状态和内容筛选
func (s *CommentService) ListAll(status, content string, page, perPage int) (*CommentPage, error) {
	query := s.db.Model(&models.Comment{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if content != "" {
		query = query.Where("content LIKE ?", "%"+content+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var comments []models.Comment
	if err := query.
		Order("created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&comments).Error; err != nil {
		return nil, err
	}

	return &CommentPage{Total: total, Items: comments, Page: page, PerPage: perPage}, nil
}

// Review 审核评论，只接受 approved / rejected
func (s *CommentService) Review(commentID uint, status string) (*models.Comment, error) {
	if status != string(models.CommentApproved) && status != string(models.CommentRejected) {
		return nil, apperr.InvalidInput("无效的状态值")
	}

	var comment models.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("评论不存在")
		}
		return nil, err
	}

	if err := s.db.Model(&comment).Update("status", status).Error; err != nil {
		return nil, err
	}
	comment.Status = models.CommentStatus(status)
	return &comment, nil
}

// Delete 删除评论及其全部直接回复（嵌套深度 ≤ 1，无需递归）。
// 只有管理员或评论作者可以删除。
func (s *CommentService) Delete(articleID, commentID uint, actor *models.User) (*models.Comment, error) {
	if err := s.checkArticle(articleID); err != nil {
		return nil, err
	}

	var comment models.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("评论不存在")
		}
		return nil, err
	}
	if comment.ArticleID != articleID {
		return nil, apperr.InvalidState("该评论不属于此文章")
	}
	if !actor.CanModify(comment.UserID) {
		return nil, apperr.Forbidden("没有权限删除此评论")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_id = ?", comment.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&comment).Error
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *CommentService) checkArticle(articleID uint) error {
	var article models.Article
	if err := s.db.Select("id").First(&article, articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound(fmt.Sprintf("文章 %d 不存在", articleID))
		}
		return err
	}
	return nil
}
