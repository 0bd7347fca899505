package models

import (
	"time"
)

type CommentStatus string

const (
	CommentPending  CommentStatus = "pending"
	CommentApproved CommentStatus = "approved"
	CommentRejected CommentStatus = "rejected"
)

// Comment 自引用评论，ParentID 为空表示顶层评论。
// 约束：回复的父评论必须是顶层评论（嵌套深度 ≤ 1），且与回复属于同一篇文章。
type Comment struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Content   string        `gorm:"size:500;not null" json:"content"`
	ArticleID uint          `gorm:"not null;index" json:"article_id"`
	Article   Article       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID    uint          `gorm:"not null;index" json:"user_id"`
	User      User          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ParentID  *uint         `gorm:"index" json:"parent_id"` // Nullable for top-level comments
	Status    CommentStatus `gorm:"size:20;default:'pending';not null" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	// 非数据库字段，查询顶层评论时填充
	Replies    []Comment `gorm:"-" json:"replies,omitempty"`
	ReplyCount int64     `gorm:"-" json:"reply_count"`
}
