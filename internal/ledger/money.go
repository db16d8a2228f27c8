package ledger

import (
	"fmt"
	"strconv"
	"strings"
)

// 金额上限：1 千万元
const maxAmountCent int64 = 10_000_000_00

// ParseAmountCent 把金额字符串（元）解析为分。
// 只接受正数，最多识别两位小数，第三位按四舍五入进位。
// "12.34" -> 1234；"12.345" -> 1235；"0"、负数、乱码都报错。
func ParseAmountCent(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("amount is empty")
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("amount must be a plain positive number, got %q", s)
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, fmt.Errorf("invalid amount format: %q", s)
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid amount format: %q", s)
		}
	}
	for _, r := range fracPart {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid amount format: %q", s)
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount format: %q", s)
	}
	// 乘 100 之前就要挡掉超大整数，否则 int64 回绕后
	// 会变成一个"合法"的小金额混进去
	if iv >= maxAmountCent/100 {
		return 0, fmt.Errorf("amount too large, got %q", s)
	}

	// 取前两位小数，第三位四舍五入
	var fracCent int64
	if len(fracPart) > 0 {
		fracCent = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCent += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCent++
			}
		}
	}

	cent := iv*100 + fracCent
	if cent <= 0 {
		return 0, fmt.Errorf("amount must be positive, got %q", s)
	}
	if cent >= maxAmountCent {
		return 0, fmt.Errorf("amount too large, got %q", s)
	}
	return cent, nil
}

// FormatCent 把分转成元的字符串，固定两位小数
func FormatCent(cent int64) string {
	return strconv.FormatFloat(float64(cent)/100.0, 'f', 2, 64)
}

// Yuan 把分转成元的 float64，只用于 JSON 展示，计算一律用分
func Yuan(cent int64) float64 {
	return float64(cent) / 100.0
}
