package handler

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"classfund/internal/middleware"
	"classfund/internal/models"
	"classfund/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserHandler 负责用户管理接口（除改密码外仅管理员可用）
type UserHandler struct {
	DB *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// ---------- 注册（管理员创建账户） ----------

type registerReq struct {
	Username string `json:"username" binding:"required"` // 3-20 位，字母数字下划线
	Password string `json:"password" binding:"required,min=6,max=64"`
	Role     string `json:"role"` // 默认 member
}

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

// Register 创建新用户，只有管理员能调用
func (h *UserHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "用户名和密码不能为空")
		return
	}

	req.Username = strings.TrimSpace(req.Username)

	// 用户名规则：3-20 位，仅字母、数字、下划线
	if !usernameRe.MatchString(req.Username) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "用户名必须为3-20位字母、数字或下划线")
		return
	}

	role := models.Role(req.Role)
	if req.Role == "" {
		role = models.RoleMember
	}
	if !role.Valid() {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "角色必须是 admin 或 member")
		return
	}

	// 不区分大小写唯一：使用 LOWER(username) 检查
	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("LOWER(username) = LOWER(?)", req.Username).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询用户失败")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "用户名已存在")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "密码加密失败")
		return
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "创建用户失败")
		return
	}

	util.Success(c, util.Response{
		"message": "用户创建成功",
		"userId":  user.ID,
	})
}

// ListUsers 用户列表，按创建时间倒序，不返回密码哈希
func (h *UserHandler) ListUsers(c *gin.Context) {
	var users []models.User
	if err := h.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询用户失败")
		return
	}

	util.Success(c, util.Response{
		"users": users,
	})
}

// DeleteUser 删除用户。不允许删除自己；
// 用户的收支记录保留（user_id 只是弱引用）。
func (h *UserHandler) DeleteUser(c *gin.Context) {
	current := middleware.CurrentUser(c)
	if current == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "未登录")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "ID 不合法")
		return
	}

	// 不能删除自己
	if uint(id) == current.ID {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "不能删除自己的账户")
		return
	}

	result := h.DB.Delete(&models.User{}, id)
	if result.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "删除用户失败")
		return
	}
	if result.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "用户不存在")
		return
	}

	util.Success(c, util.Response{
		"message": "用户删除成功",
	})
}

// ---------- 修改自己的密码 ----------

type changePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=64"`
}

// ChangePassword 修改当前用户密码
func (h *UserHandler) ChangePassword(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "未登录")
		return
	}

	var req changePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "参数错误")
		return
	}

	// 校验旧密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "原密码错误")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "密码加密失败")
		return
	}

	if err := h.DB.Model(user).Update("password_hash", string(hash)).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "更新密码失败")
		return
	}

	util.Success(c, util.Response{
		"message": "密码修改成功，请使用新密码重新登录",
	})
}
