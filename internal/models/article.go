package models

import (
	"time"
)

type ArticleStatus string

const (
	ArticleDraft     ArticleStatus = "draft"
	ArticlePublished ArticleStatus = "published"
)

type Article struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Title     string        `gorm:"uniqueIndex;size:200;not null" json:"title"`
	Content   string        `gorm:"type:text;not null" json:"content"`
	Category  string        `gorm:"size:50;not null;index" json:"category"`
	Tags      []string      `gorm:"serializer:json" json:"tags"`
	Status    ArticleStatus `gorm:"size:20;default:'draft';not null" json:"status"`
	Views     int           `gorm:"default:0" json:"views"`
	AuthorID  uint          `gorm:"not null;index" json:"author_id"`
	Author    User          `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
