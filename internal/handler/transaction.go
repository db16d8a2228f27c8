package handler

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"classfund/internal/ledger"
	"classfund/internal/middleware"
	"classfund/internal/models"
	"classfund/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionHandler 负责班费收支记录相关接口。
// 班费是全班共享账本，记录不按用户隔离，user_id 只标记记录人。
type TransactionHandler struct {
	DB        *gorm.DB
	UploadDir string // 凭证图片保存目录
	MaxUpload int64  // 单张图片大小上限（字节）
	PageSize  int    // 默认每页条数
}

func NewTransactionHandler(db *gorm.DB, uploadDir string, maxUploadMB int64, pageSize int) *TransactionHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 5
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return &TransactionHandler{
		DB:        db,
		UploadDir: uploadDir,
		MaxUpload: maxUploadMB << 20,
		PageSize:  pageSize,
	}
}

// ---------- 响应结构 ----------

type transactionResp struct {
	ID          uint      `json:"id"`
	Type        string    `json:"type"`
	AmountCent  int64     `json:"amount_cent"`
	Amount      string    `json:"amount"` // 元（字符串，方便前端直接显示）
	Description string    `json:"description"`
	Category    string    `json:"category"`
	UserID      uint      `json:"user_id"`
	Username    string    `json:"username"` // 记录人用户名
	CreatedAt   time.Time `json:"created_at"`
	Handler     string    `json:"handler"`
	Witness     string    `json:"witness"`
	ImagePath   string    `json:"image_path"`
	BalanceCent int64     `json:"balance_cent"` // 到这笔为止的结余
	Balance     string    `json:"balance"`
}

func toTransactionResp(t *models.Transaction, username string, balanceCent int64) transactionResp {
	return transactionResp{
		ID:          t.ID,
		Type:        t.Type,
		AmountCent:  t.AmountCent,
		Amount:      ledger.FormatCent(t.AmountCent),
		Description: t.Description,
		Category:    t.Category,
		UserID:      t.UserID,
		Username:    username,
		CreatedAt:   t.CreatedAt,
		Handler:     t.Handler,
		Witness:     t.Witness,
		ImagePath:   t.ImagePath,
		BalanceCent: balanceCent,
		Balance:     ledger.FormatCent(balanceCent),
	}
}

// ---------- 工具函数 ----------

// parseOccurredAt 解析前端传的记录日期，支持几种常见格式，解析不了用当前时间
func parseOccurredAt(s string) time.Time {
	if s == "" {
		return time.Now()
	}
	layouts := []string{
		time.RFC3339,          // 2025-12-03T00:00:00+08:00
		"2006-01-02T15:04:05", // 2025-12-03T00:00:00
		"2006-01-02",          // 2025-12-03
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now()
}

// applyFilters 把 type / startDate / endDate 查询参数统一拼到查询里，
// 列表、统计、导出都走这一个，保证各视图看到同一份子集。
// 日期是 YYYY-MM-DD 的自然日，闭区间。
func (h *TransactionHandler) applyFilters(c *gin.Context, q *gorm.DB) (*gorm.DB, bool) {
	if txType := c.Query("type"); txType != "" {
		if err := util.ValidateType(txType); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "类型必须是收入或支出")
			return nil, false
		}
		q = q.Where("type = ?", txType)
	}
	if startDate := c.Query("startDate"); startDate != "" {
		if err := util.ValidateDate(startDate); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "开始日期格式错误，应为 YYYY-MM-DD")
			return nil, false
		}
		q = q.Where("DATE(created_at) >= ?", startDate)
	}
	if endDate := c.Query("endDate"); endDate != "" {
		if err := util.ValidateDate(endDate); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "结束日期格式错误，应为 YYYY-MM-DD")
			return nil, false
		}
		q = q.Where("DATE(created_at) <= ?", endDate)
	}
	return q, true
}

// usernameMap 批量查记录人用户名，避免逐行 JOIN
func (h *TransactionHandler) usernameMap(txs []models.Transaction) map[uint]string {
	idSet := make(map[uint]struct{})
	for i := range txs {
		if txs[i].UserID != 0 {
			idSet[txs[i].UserID] = struct{}{}
		}
	}
	names := make(map[uint]string, len(idSet))
	if len(idSet) == 0 {
		return names
	}
	ids := make([]uint, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	var users []models.User
	if err := h.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return names
	}
	for i := range users {
		names[users[i].ID] = users[i].Username
	}
	return names
}

// ---------- 记一笔 ----------

// Create 新增一条收支记录（multipart 表单，可带凭证图片）
func (h *TransactionHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "未登录")
		return
	}

	txType := strings.TrimSpace(c.PostForm("type"))
	amountStr := strings.TrimSpace(c.PostForm("amount"))
	description := strings.TrimSpace(c.PostForm("description"))
	category := strings.TrimSpace(c.PostForm("category"))
	dateStr := strings.TrimSpace(c.PostForm("date"))
	handlerName := strings.TrimSpace(c.PostForm("handler"))
	witness := strings.TrimSpace(c.PostForm("witness"))

	if txType == "" || amountStr == "" || description == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "请填写完整信息")
		return
	}
	if err := util.ValidateType(txType); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "类型必须是收入或支出")
		return
	}
	if err := util.ValidateDescription(description); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "请填写用途说明")
		return
	}
	if err := util.ValidateCategory(category); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "类别过长")
		return
	}

	amountCent, err := ledger.ParseAmountCent(amountStr)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "请输入有效金额")
		return
	}

	// 凭证图片：只收 image/*，限制大小，uuid 文件名防覆盖
	var imagePath string
	if file, err := c.FormFile("image"); err == nil && file != nil {
		if file.Size > h.MaxUpload {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "图片不能超过 5MB")
			return
		}
		contentType := file.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "只允许上传图片文件")
			return
		}
		name := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
		if err := c.SaveUploadedFile(file, filepath.Join(h.UploadDir, name)); err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "保存图片失败")
			return
		}
		imagePath = "/uploads/" + name
	}

	tx := models.Transaction{
		Type:        txType,
		AmountCent:  amountCent,
		Description: description,
		Category:    category,
		UserID:      user.ID,
		CreatedAt:   parseOccurredAt(dateStr),
		Handler:     handlerName,
		Witness:     witness,
		ImagePath:   imagePath,
	}

	if err := h.DB.Create(&tx).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "添加记录失败")
		return
	}

	util.Success(c, util.Response{
		"message":       "记录添加成功",
		"transactionId": tx.ID,
	})
}

// ---------- 记录列表 ----------

// List 查询收支记录列表，支持类型/日期筛选和分页。
// 每行带"到这笔为止"的结余：结余在整个筛选子集上按时间正序算一次，
// 再贴回当前页的行，这样翻页和导出看到的结余永远一致。
// 展示顺序是最新在前，和结余的计算顺序无关。
func (h *TransactionHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.PageSize)))
	if limit <= 0 || limit > 1000 {
		limit = h.PageSize
	}

	base, ok := h.applyFilters(c, h.DB.Model(&models.Transaction{}))
	if !ok {
		return
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询失败")
		return
	}

	var pageRows []models.Transaction
	if err := base.Session(&gorm.Session{}).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&pageRows).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询失败")
		return
	}

	// 整个筛选子集（按插入顺序取出，结余排序交给聚合层）
	var all []models.Transaction
	if err := base.Session(&gorm.Session{}).
		Order("id ASC").
		Find(&all).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询失败")
		return
	}

	balanceByID := make(map[uint]int64, len(all))
	for _, row := range ledger.ComputeRunningBalances(all) {
		balanceByID[row.ID] = row.BalanceCent
	}
	names := h.usernameMap(pageRows)

	items := make([]transactionResp, 0, len(pageRows))
	for i := range pageRows {
		t := &pageRows[i]
		items = append(items, toTransactionResp(t, names[t.UserID], balanceByID[t.ID]))
	}

	pages := int((total + int64(limit) - 1) / int64(limit))

	util.Success(c, util.Response{
		"transactions": items,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": pages,
		},
	})
}

// ---------- 删除一条记录 ----------

// Delete 按 id 永久删除一条记录。
// TODO: 目前只要求登录，和旧版行为一致——前端按角色隐藏删除按钮，
// 但接口本身没有管理员门禁，等确认后在路由上加 RequireRole。
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "ID 不合法")
		return
	}

	result := h.DB.Delete(&models.Transaction{}, id)
	if result.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "删除失败")
		return
	}
	if result.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "记录不存在")
		return
	}

	util.Success(c, util.Response{
		"message": "删除成功",
	})
}

// ---------- 统计 ----------

// Statistics 返回区间收支汇总 {totalIncome, totalExpense, balance}。
// 日期筛选必须和列表走同一个 applyFilters：数据库里按 UTC 算自然日，
// 如果这里改用 Go 侧按本地时区格式化日期，边界日的记录
// 会在两个接口里落到不同的天，列表和汇总就对不上了。
func (h *TransactionHandler) Statistics(c *gin.Context) {
	base, ok := h.applyFilters(c, h.DB.Model(&models.Transaction{}))
	if !ok {
		return
	}

	var all []models.Transaction
	if err := base.Order("id ASC").Find(&all).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询失败")
		return
	}

	s := ledger.ComputeSummary(all, "", "")

	util.Success(c, util.Response{
		"totalIncome":  ledger.Yuan(s.IncomeCent),
		"totalExpense": ledger.Yuan(s.ExpenseCent),
		"balance":      ledger.Yuan(s.BalanceCent),
		"noData":       s.Empty(),
	})
}

// MonthlyStatistics 返回按月聚合的收支（趋势图数据源）
func (h *TransactionHandler) MonthlyStatistics(c *gin.Context) {
	base, ok := h.applyFilters(c, h.DB.Model(&models.Transaction{}))
	if !ok {
		return
	}

	var all []models.Transaction
	if err := base.Order("id ASC").Find(&all).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询失败")
		return
	}

	buckets := ledger.GroupByMonth(all)
	months := make([]gin.H, 0, len(buckets))
	for _, b := range buckets {
		months = append(months, gin.H{
			"month":   b.Month,
			"income":  ledger.Yuan(b.IncomeCent),
			"expense": ledger.Yuan(b.ExpenseCent),
			"count":   b.Count,
		})
	}

	util.Success(c, util.Response{
		"months": months,
	})
}

// CategoryStatistics 返回按类别聚合的金额（饼图数据源），默认统计支出
func (h *TransactionHandler) CategoryStatistics(c *gin.Context) {
	txType := c.DefaultQuery("type", models.TypeExpense)
	if err := util.ValidateType(txType); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "类型必须是收入或支出")
		return
	}

	base, ok := h.applyFilters(c, h.DB.Model(&models.Transaction{}))
	if !ok {
		return
	}

	var all []models.Transaction
	if err := base.Order("id ASC").Find(&all).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询失败")
		return
	}

	buckets := ledger.GroupByCategory(all, txType)
	categories := make([]gin.H, 0, len(buckets))
	for _, b := range buckets {
		categories = append(categories, gin.H{
			"category": b.Category,
			"amount":   ledger.Yuan(b.AmountCent),
			"count":    b.Count,
		})
	}

	util.Success(c, util.Response{
		"type":       txType,
		"categories": categories,
	})
}
