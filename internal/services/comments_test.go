package services

import (
	"fmt"
	"testing"

	"newsapi/internal/apperr"
	"newsapi/internal/db"
	"newsapi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		Username: "测试用户",
		Email:    email,
		Password: "hashed",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, gdb.Create(user).Error)
	return user
}

func seedArticle(t *testing.T, gdb *gorm.DB, title string, authorID uint) *models.Article {
	t.Helper()
	article := &models.Article{
		Title:    title,
		Content:  "正文",
		Category: "科技",
		Status:   models.ArticlePublished,
		AuthorID: authorID,
	}
	require.NoError(t, gdb.Create(article).Error)
	return article
}

func requireAppErr(t *testing.T, err error, status int, message string) {
	t.Helper()
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, status, ae.Status)
	assert.Equal(t, message, ae.Message)
}

func TestCreateComment(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewCommentService(gdb)
	user := seedUser(t, gdb, "a@example.com", models.RoleUser)
	article := seedArticle(t, gdb, "文章一", user.ID)

	comment, err := svc.Create(article.ID, "第一条评论", nil, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CommentPending, comment.Status, "新评论应为待审核状态")
	assert.Nil(t, comment.ParentID)
}

func TestCreateCommentValidation(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewCommentService(gdb)
	user := seedUser(t, gdb, "a@example.com", models.RoleUser)
	article := seedArticle(t, gdb, "文章一", user.ID)

	_, err := svc.Create(article.ID, "", nil, user.ID)
	requireAppErr(t, err, 400, "评论内容不能为空")

	long := make([]rune, 501)
	for i := range long {
		long[i] = '长'
	}
	_, err = svc.Create(article.ID, string(long), nil, user.ID)
	requireAppErr(t, err, 400, "评论内容不能超过500字")

	_, err = svc.Create(999, "评论", nil, user.ID)
	requireAppErr(t, err, 404, "文章 999 不存在")
}

func TestCreateReplyRules(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewCommentService(gdb)
	user := seedUser(t, gdb, "a@example.com", models.RoleUser)
	article := seedArticle(t, gdb, "文章一", user.ID)
	other := seedArticle(t, gdb, "文章二", user.ID)

	top, err := svc.Create(article.ID, "顶层评论", nil, user.ID)
	require.NoError(t, err)

	// 父评论不存在
	missing := uint(999)
	_, err = svc.Create(article.ID, "回复", &missing, user.ID)
	requireAppErr(t, err, 404, "父评论不存在")

	// 父评论属于另一篇文章
	_, err = svc.Create(other.ID, "回复", &top.ID, user.ID)
	requireAppErr(t, err, 400, "父评论不属于该文章")

	// 正常回复
	reply, err := svc.Create(article.ID, "一级回复", &top.ID, user.ID)
	require.NoError(t, err)

	// 不允许回复的回复
	_, err = svc.Create(article.ID, "二级回复", &reply.ID, user.ID)
	requireAppErr(t, err, 400, "不支持嵌套回复")
}

func TestListTopLevelWithPreviews(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewCommentService(gdb)
	user := seedUser(t, gdb, "a@example.com", models.RoleUser)
	article := seedArticle(t, gdb, "文章一", user.ID)

	top, err := svc.Create(article.ID, "顶层评论", nil, user.ID)
	require.NoError(t, err)
	for i := 0; i < 7; i++ {
		_, err := svc.Create(article.ID, fmt.Sprintf("回复%d", i), &top.ID, user.ID)
		require.NoError(t, err)
	}

	page, err := svc.ListByArticle(article.ID, nil, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1, "只返回顶层评论")
	assert.EqualValues(t, 1, page.Total)
	assert.Len(t, page.Items[0].Replies, 5, "回复预览最多5条")
	assert.EqualValues(t, 7, page.Items[0].ReplyCount, "回复总数应为7")

	// 预览取的是最新的回复，最早的两条不在其中
	contents := make([]string, 0, 5)
	for _, r := range page.Items[0].Replies {
		contents = append(contents, r.Content)
	}
	assert.NotContains(t, contents, "回复0")
	assert.NotContains(t, contents, "回复1")
}

func TestListReplies(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewCommentService(gdb)
	user := seedUser(t, gdb, "a@example.com", models.RoleUser)
	article := seedArticle(t, gdb, "文章一", user.ID)

	top, err := svc.Create(article.ID, "顶层评论", nil, user.ID)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := svc.Create(article.ID, fmt.Sprintf("回复%d", i), &top.ID, user.ID)
		require.NoError(t, err)
	}

	page, err := svc.ListByArticle(article.ID, &top.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Len(t, page.Items, 3)

	// 父评论不属于该文章
	other := seedArticle(t, gdb, "文章二", user.ID)
	_, err = svc.ListByArticle(other.ID, &top.ID, 1, 10)
	requireAppErr(t, err, 400, "父评论不属于该文章")
}

func TestListAllFilters(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewCommentService(gdb)
	user := seedUser(t, gdb, "a@example.com", models.RoleUser)
	article := seedArticle(t, gdb, "文章一", user.ID)

	c1, err := svc.Create(article.ID, "需要审核的评论", nil, user.ID)
	require.NoError(t, err)
	_, err = svc.Create(article.ID, "另一条评论", nil, user.ID)
	require.NoError(t, err)
	_, err = svc.Review(c1.ID, "approved")
	require.NoError(t, err)

	page, err := svc.ListAll("approved", "", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	page, err = svc.ListAll("", "另一条", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}

func TestReview(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewCommentService(gdb)
	user := seedUser(t, gdb, "a@example.com", models.RoleUser)
	article := seedArticle(t, gdb, "文章一", user.ID)

	comment, err := svc.Create(article.ID, "评论", nil, user.ID)
	require.NoError(t, err)

	_, err = svc.Review(comment.ID, "pending")
	requireAppErr(t, err, 400, "无效的状态值")

	_, err = svc.Review(999, "approved")
	requireAppErr(t, err, 404, "评论不存在")

	reviewed, err := svc.Review(comment.ID, "approved")
	require.NoError(t, err)
	assert.Equal(t, models.CommentApproved, reviewed.Status)
}

func TestDeleteComment(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewCommentService(gdb)
	author := seedUser(t, gdb, "author@example.com", models.RoleUser)
	stranger := seedUser(t, gdb, "other@example.com", models.RoleUser)
	admin := seedUser(t, gdb, "admin@example.com", models.RoleAdmin)
	article := seedArticle(t, gdb, "文章一", author.ID)

	top, err := svc.Create(article.ID, "顶层评论", nil, author.ID)
	require.NoError(t, err)
	_, err = svc.Create(article.ID, "回复", &top.ID, author.ID)
	require.NoError(t, err)

	// 非作者非管理员不能删除
	_, err = svc.Delete(article.ID, top.ID, stranger)
	requireAppErr(t, err, 403, "没有权限删除此评论")

	// 评论与文章不匹配
	other := seedArticle(t, gdb, "文章二", author.ID)
	_, err = svc.Delete(other.ID, top.ID, author)
	requireAppErr(t, err, 400, "该评论不属于此文章")

	// 管理员删除顶层评论时回复一并删除
	_, err = svc.Delete(article.ID, top.ID, admin)
	require.NoError(t, err)

	var count int64
	require.NoError(t, gdb.Model(&models.Comment{}).Where("article_id = ?", article.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count, "删除顶层评论应级联删除其回复")
}
