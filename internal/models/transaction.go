package models

import "time"

// 收支类型
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction 表示一笔班费收支记录
// 金额用分存储，避免浮点误差，比如 12.34 元 = 1234 分
//
// CreatedAt 既是记录日期也是排序键，由前端传入（只到日期精度），
// 没传时由服务端填当前时间，所以两条记录的时间戳可能完全相同。
// GORM 的自动时间戳被有意关掉，防止覆盖前端传来的日期。
type Transaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Type        string    `gorm:"size:16;index;not null" json:"type"` // income / expense
	AmountCent  int64     `gorm:"not null" json:"amount_cent"`        // 金额（分）
	Description string    `gorm:"size:255;not null" json:"description"`
	Category    string    `gorm:"size:32" json:"category"`
	UserID      uint      `gorm:"index" json:"user_id"` // 记录人，弱引用，删用户不动记录
	CreatedAt   time.Time `gorm:"index;autoCreateTime:false;autoUpdateTime:false" json:"created_at"`
	Handler     string    `gorm:"size:64" json:"handler"` // 经手人
	Witness     string    `gorm:"size:64" json:"witness"` // 见证人
	ImagePath   string    `gorm:"size:255" json:"image_path"` // 凭证图片相对路径，可为空
}
