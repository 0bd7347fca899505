package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"newsapi/internal/apperr"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构 {code, message, data}
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: http.StatusOK, Message: "Success", Data: data})
}

// Fail 业务错误按 apperr 映射状态码，其余统一 500
func Fail(c *gin.Context, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		c.JSON(ae.Status, Response{Code: ae.Status, Message: ae.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, Response{
		Code:    http.StatusInternalServerError,
		Message: "Internal Server Error: " + err.Error(),
	})
}

// pageParams 解析分页参数，默认第 1 页、每页 10 条
func pageParams(c *gin.Context) (page, perPage int) {
	page = 1
	if p := c.Query("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil && n > 0 {
			page = n
		}
	}
	perPage = 10
	if p := c.Query("per_page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil && n > 0 && n <= 100 {
			perPage = n
		}
	}
	return page, perPage
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil || n < 0 {
		return 0, false
	}
	return uint(n), true
}

// startOfToday 本地时区的今天零点，趋势统计按此切分天。
// Truncate 按 UTC 纪元切分，在非 UTC 时区会和日期标签错开。
func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
