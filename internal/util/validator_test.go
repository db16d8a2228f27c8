package util

import (
	"testing"

	"classfund/internal/models"
)

// TestValidateType_Valid 合法类型
func TestValidateType_Valid(t *testing.T) {
	for _, txType := range []string{models.TypeIncome, models.TypeExpense} {
		if err := ValidateType(txType); err != nil {
			t.Errorf("ValidateType(%q) error = %v, want nil", txType, err)
		}
	}
}

// TestValidateType_Invalid 非法类型（异常）
func TestValidateType_Invalid(t *testing.T) {
	for _, txType := range []string{"", "Income", "transfer", "收入"} {
		if err := ValidateType(txType); err == nil {
			t.Errorf("ValidateType(%q) error = nil, want error", txType)
		}
	}
}

// TestValidateDate_Valid 合法日期
func TestValidateDate_Valid(t *testing.T) {
	testCases := []string{"2024-01-01", "2025-12-31", "2000-02-29"}

	for _, date := range testCases {
		err := ValidateDate(date)
		if err != nil {
			t.Errorf("ValidateDate(%q) error = %v, want nil", date, err)
		}
	}
}

// TestValidateDate_InvalidFormat 测试无效格式（异常）
func TestValidateDate_InvalidFormat(t *testing.T) {
	testCases := []string{
		"",
		"2024/01/01",
		"01-01-2024",
		"2024-1-1",
		"not-a-date",
		"2024-13-01", // 月份错误
		"2024-01-32", // 日期错误
	}

	for _, date := range testCases {
		err := ValidateDate(date)
		if err == nil {
			t.Errorf("ValidateDate(%q) error = nil, want error", date)
		}
	}
}

// TestValidateDescription_Valid 合法摘要
func TestValidateDescription_Valid(t *testing.T) {
	for _, desc := range []string{"班级聚餐", "打印资料", "A"} {
		if err := ValidateDescription(desc); err != nil {
			t.Errorf("ValidateDescription(%q) error = %v, want nil", desc, err)
		}
	}
}

// TestValidateDescription_Empty 空摘要（异常）
func TestValidateDescription_Empty(t *testing.T) {
	if err := ValidateDescription(""); err == nil {
		t.Error("ValidateDescription(\"\") error = nil, want error")
	}
}

// TestValidateCategory_EmptyAllowed 类别允许为空（入账时归"未分类"）
func TestValidateCategory_EmptyAllowed(t *testing.T) {
	if err := ValidateCategory(""); err != nil {
		t.Errorf("ValidateCategory(\"\") error = %v, want nil", err)
	}
}

// TestValidateCategory_TooLong 过长类别（异常）
func TestValidateCategory_TooLong(t *testing.T) {
	longCategory := "这是一个非常非常非常长的分类名称"

	if err := ValidateCategory(longCategory); err == nil {
		t.Error("ValidateCategory() with long string error = nil, want error")
	}
}
