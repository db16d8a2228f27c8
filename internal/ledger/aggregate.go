// Package ledger 是收支数据的纯聚合层：流水结余、区间汇总、
// 按月和按类别分组。不做任何 I/O，调用方先把过滤好的记录查出来。
package ledger

import (
	"sort"

	"classfund/internal/models"
)

// UncategorizedLabel 空类别统一显示的标签
const UncategorizedLabel = "未分类"

const dateLayout = "2006-01-02"

// BalanceRow 一条记录加上"到这笔为止"的结余
type BalanceRow struct {
	models.Transaction
	BalanceCent int64   `json:"balance_cent"`
	Balance     float64 `json:"balance"`
}

// Summary 区间收支汇总
type Summary struct {
	IncomeCent  int64 `json:"income_cent"`
	ExpenseCent int64 `json:"expense_cent"`
	BalanceCent int64 `json:"balance_cent"`
}

// Empty 收支都为零，前端据此显示"暂无数据"而不是画一张空图
func (s Summary) Empty() bool {
	return s.IncomeCent+s.ExpenseCent == 0
}

// MonthBucket 按月聚合结果
type MonthBucket struct {
	Month       string `json:"month"` // YYYY-MM
	IncomeCent  int64  `json:"income_cent"`
	ExpenseCent int64  `json:"expense_cent"`
	Count       int    `json:"count"`
}

// CategoryBucket 按类别聚合结果
type CategoryBucket struct {
	Category   string `json:"category"`
	AmountCent int64  `json:"amount_cent"`
	Count      int    `json:"count"`
}

// signedCent 收入为正、支出为负
func signedCent(t *models.Transaction) int64 {
	if t.Type == models.TypeIncome {
		return t.AmountCent
	}
	return -t.AmountCent
}

// ComputeRunningBalances 计算流水结余。
// 先按 created_at 升序稳定排序（日期由前端传入，撞时间戳很常见，
// 相同时间戳必须保持入参顺序），再从 0 开始逐笔累加：收入加、支出减，
// 每行带上应用完这笔之后的结余。
// 返回的是新切片，调用方可以按展示需要重新排序（比如倒序显示），
// 不会影响已经算好的结余值。
func ComputeRunningBalances(txs []models.Transaction) []BalanceRow {
	sorted := make([]models.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	rows := make([]BalanceRow, 0, len(sorted))
	var acc int64
	for i := range sorted {
		acc += signedCent(&sorted[i])
		rows = append(rows, BalanceRow{
			Transaction: sorted[i],
			BalanceCent: acc,
			Balance:     Yuan(acc),
		})
	}
	return rows
}

// ComputeSummary 计算区间收支汇总。
// startDate / endDate 是 YYYY-MM-DD 的自然日，闭区间，传空串表示不限。
// 没有命中任何记录时返回全零，不算错误。
func ComputeSummary(txs []models.Transaction, startDate, endDate string) Summary {
	var s Summary
	for i := range txs {
		t := &txs[i]
		day := t.CreatedAt.Format(dateLayout)
		if startDate != "" && day < startDate {
			continue
		}
		if endDate != "" && day > endDate {
			continue
		}
		if t.Type == models.TypeIncome {
			s.IncomeCent += t.AmountCent
		} else {
			s.ExpenseCent += t.AmountCent
		}
	}
	s.BalanceCent = s.IncomeCent - s.ExpenseCent
	return s
}

// GroupByMonth 按自然月（YYYY-MM）聚合，按月份升序返回。
// 只输出有记录的月份，中间的空月不补零。
func GroupByMonth(txs []models.Transaction) []MonthBucket {
	byMonth := make(map[string]*MonthBucket)
	for i := range txs {
		t := &txs[i]
		key := t.CreatedAt.Format("2006-01")
		b, ok := byMonth[key]
		if !ok {
			b = &MonthBucket{Month: key}
			byMonth[key] = b
		}
		if t.Type == models.TypeIncome {
			b.IncomeCent += t.AmountCent
		} else {
			b.ExpenseCent += t.AmountCent
		}
		b.Count++
	}

	buckets := make([]MonthBucket, 0, len(byMonth))
	for _, b := range byMonth {
		buckets = append(buckets, *b)
	}
	// YYYY-MM 字典序即时间序
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Month < buckets[j].Month
	})
	return buckets
}

// GroupByCategory 按类别聚合指定类型（一般是 expense）的金额。
// 空类别归入"未分类"。输出顺序是类别首次出现的顺序，
// 不排序，前端按位置给饼图配色。
func GroupByCategory(txs []models.Transaction, txType string) []CategoryBucket {
	index := make(map[string]int)
	var buckets []CategoryBucket
	for i := range txs {
		t := &txs[i]
		if txType != "" && t.Type != txType {
			continue
		}
		cat := t.Category
		if cat == "" {
			cat = UncategorizedLabel
		}
		pos, ok := index[cat]
		if !ok {
			pos = len(buckets)
			index[cat] = pos
			buckets = append(buckets, CategoryBucket{Category: cat})
		}
		buckets[pos].AmountCent += t.AmountCent
		buckets[pos].Count++
	}
	return buckets
}
