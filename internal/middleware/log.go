package middleware

import (
	"bytes"
	"io"
	"strings"

	"classfund/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuditMiddleware 把登录用户的写操作记入操作日志
func AuditMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 读取请求体（之后还回去，handler 还要用）
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		// 执行请求
		c.Next()

		// 只记录登录用户的操作
		var userID uint
		if user := CurrentUser(c); user != nil {
			userID = user.ID
		}
		if userID == 0 {
			return
		}

		// GET 请求不记，避免日志被列表刷屏
		if c.Request.Method == "GET" {
			return
		}

		path := c.Request.URL.Path
		action := c.Request.Method + " " + path
		// multipart 上传的请求体可能带二进制图片，不往日志里塞
		if len(bodyBytes) > 0 && len(bodyBytes) < 2000 &&
			!strings.HasPrefix(c.ContentType(), "multipart/") {
			action += " " + string(bodyBytes)
		}

		log := models.AuditLog{
			UserID:    &userID,
			Method:    c.Request.Method,
			Path:      path,
			Action:    action,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}

		_ = db.Create(&log).Error
	}
}
