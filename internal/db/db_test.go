package db

import (
	"testing"

	"newsapi/internal/auth"
	"newsapi/internal/config"
	"newsapi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb))
	return gdb
}

func TestSeedAdmin(t *testing.T) {
	gdb := newTestDB(t)
	cfg := config.AdminConfig{Email: "zs@qq.com", Username: "zs", Password: "zs1024"}

	require.NoError(t, SeedAdmin(gdb, cfg))

	var admin models.User
	require.NoError(t, gdb.Where("email = ?", cfg.Email).First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role, "初始用户应为管理员")
	assert.True(t, admin.IsActive)
	assert.True(t, auth.CheckPasswordHash("zs1024", admin.Password))

	// 重复执行不产生第二个用户
	require.NoError(t, SeedAdmin(gdb, cfg))
	var count int64
	require.NoError(t, gdb.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "重复初始化应幂等")
}

func TestSeedAdminDisabled(t *testing.T) {
	gdb := newTestDB(t)

	require.NoError(t, SeedAdmin(gdb, config.AdminConfig{}))

	var count int64
	require.NoError(t, gdb.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 0, count, "未配置邮箱时跳过初始化")
}
