package util

import (
	"fmt"
	"time"

	"classfund/internal/models"
)

// ValidateType 验证收支类型（必须是 income 或 expense）
func ValidateType(txType string) error {
	if txType != models.TypeIncome && txType != models.TypeExpense {
		return fmt.Errorf("type must be income or expense, got %q", txType)
	}
	return nil
}

// ValidateDate 验证日期格式（必须为 YYYY-MM-DD）
func ValidateDate(dateStr string) error {
	if dateStr == "" {
		return fmt.Errorf("date is empty")
	}
	_, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}
	return nil
}

// ValidateDescription 验证摘要（不能为空且长度合理）
func ValidateDescription(desc string) error {
	if desc == "" {
		return fmt.Errorf("description is empty")
	}
	if len(desc) > 255 {
		return fmt.Errorf("description too long, max 255 bytes")
	}
	return nil
}

// ValidateCategory 验证分类（可以为空，非空时长度合理）
func ValidateCategory(category string) error {
	if len(category) > 32 {
		return fmt.Errorf("category too long, max 32 bytes")
	}
	return nil
}
