package ledger

import (
	"testing"
	"time"

	"classfund/internal/models"
)

// mkTx 构造一条测试记录，day 形如 "2025-03-01"
func mkTx(id uint, txType string, cent int64, day, category string) models.Transaction {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return models.Transaction{
		ID:         id,
		Type:       txType,
		AmountCent: cent,
		Category:   category,
		CreatedAt:  t,
	}
}

// TestComputeRunningBalances_Scenario 典型场景：收100、支30、收50
func TestComputeRunningBalances_Scenario(t *testing.T) {
	txs := []models.Transaction{
		mkTx(1, models.TypeIncome, 100_00, "2025-01-01", ""),
		mkTx(2, models.TypeExpense, 30_00, "2025-01-02", ""),
		mkTx(3, models.TypeIncome, 50_00, "2025-01-03", ""),
	}

	rows := ComputeRunningBalances(txs)
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}

	want := []int64{100_00, 70_00, 120_00}
	for i, w := range want {
		if rows[i].BalanceCent != w {
			t.Errorf("rows[%d].BalanceCent = %d, want %d", i, rows[i].BalanceCent, w)
		}
	}

	s := ComputeSummary(txs, "", "")
	if s.IncomeCent != 150_00 || s.ExpenseCent != 30_00 || s.BalanceCent != 120_00 {
		t.Errorf("summary = %+v, want {15000 3000 12000}", s)
	}
}

// TestComputeRunningBalances_SortsAscending 输入乱序也按日期正序累加
func TestComputeRunningBalances_SortsAscending(t *testing.T) {
	txs := []models.Transaction{
		mkTx(3, models.TypeIncome, 50_00, "2025-01-03", ""),
		mkTx(1, models.TypeIncome, 100_00, "2025-01-01", ""),
		mkTx(2, models.TypeExpense, 30_00, "2025-01-02", ""),
	}

	rows := ComputeRunningBalances(txs)
	wantIDs := []uint{1, 2, 3}
	wantBalances := []int64{100_00, 70_00, 120_00}
	for i := range rows {
		if rows[i].ID != wantIDs[i] {
			t.Errorf("rows[%d].ID = %d, want %d", i, rows[i].ID, wantIDs[i])
		}
		if rows[i].BalanceCent != wantBalances[i] {
			t.Errorf("rows[%d].BalanceCent = %d, want %d", i, rows[i].BalanceCent, wantBalances[i])
		}
	}
}

// TestComputeRunningBalances_StableOnEqualDates 日期相同的记录保持入参顺序
// （日期是前端传的自然日，撞时间戳很常见）
func TestComputeRunningBalances_StableOnEqualDates(t *testing.T) {
	txs := []models.Transaction{
		mkTx(7, models.TypeIncome, 10_00, "2025-02-01", ""),
		mkTx(8, models.TypeExpense, 3_00, "2025-02-01", ""),
		mkTx(9, models.TypeIncome, 5_00, "2025-02-01", ""),
	}

	rows := ComputeRunningBalances(txs)
	wantIDs := []uint{7, 8, 9}
	for i := range rows {
		if rows[i].ID != wantIDs[i] {
			t.Fatalf("rows[%d].ID = %d, want %d (相同日期必须保持原顺序)", i, rows[i].ID, wantIDs[i])
		}
	}
	want := []int64{10_00, 7_00, 12_00}
	for i := range rows {
		if rows[i].BalanceCent != want[i] {
			t.Errorf("rows[%d].BalanceCent = %d, want %d", i, rows[i].BalanceCent, want[i])
		}
	}
}

// TestComputeRunningBalances_LastEqualsSummaryBalance 最后一行结余 == 汇总结余
func TestComputeRunningBalances_LastEqualsSummaryBalance(t *testing.T) {
	txs := []models.Transaction{
		mkTx(1, models.TypeIncome, 123_45, "2025-01-05", ""),
		mkTx(2, models.TypeExpense, 67_89, "2025-01-06", ""),
		mkTx(3, models.TypeExpense, 11, "2025-01-06", ""),
		mkTx(4, models.TypeIncome, 99_99, "2025-02-01", ""),
	}

	rows := ComputeRunningBalances(txs)
	s := ComputeSummary(txs, "", "")
	if rows[len(rows)-1].BalanceCent != s.BalanceCent {
		t.Errorf("last balance = %d, summary balance = %d, want equal",
			rows[len(rows)-1].BalanceCent, s.BalanceCent)
	}
}

// TestComputeRunningBalances_Empty 空输入返回空切片
func TestComputeRunningBalances_Empty(t *testing.T) {
	rows := ComputeRunningBalances(nil)
	if len(rows) != 0 {
		t.Errorf("len(rows) = %d, want 0", len(rows))
	}
}

// TestComputeSummary_DateRangeInclusive 区间是闭区间，端点当天的记录要算进去
func TestComputeSummary_DateRangeInclusive(t *testing.T) {
	txs := []models.Transaction{
		mkTx(1, models.TypeIncome, 10_00, "2025-01-01", ""),
		mkTx(2, models.TypeIncome, 20_00, "2025-01-15", ""),
		mkTx(3, models.TypeIncome, 40_00, "2025-01-31", ""),
		mkTx(4, models.TypeExpense, 5_00, "2025-02-01", ""),
	}

	s := ComputeSummary(txs, "2025-01-01", "2025-01-31")
	if s.IncomeCent != 70_00 {
		t.Errorf("IncomeCent = %d, want 7000 (两个端点都要包含)", s.IncomeCent)
	}
	if s.ExpenseCent != 0 {
		t.Errorf("ExpenseCent = %d, want 0", s.ExpenseCent)
	}

	// 只传开始日期
	s = ComputeSummary(txs, "2025-02-01", "")
	if s.ExpenseCent != 5_00 || s.IncomeCent != 0 {
		t.Errorf("summary = %+v, want expense 500 only", s)
	}
}

// TestComputeSummary_Empty 空输入返回全零，并给出"暂无数据"信号
func TestComputeSummary_Empty(t *testing.T) {
	s := ComputeSummary(nil, "", "")
	if s.IncomeCent != 0 || s.ExpenseCent != 0 || s.BalanceCent != 0 {
		t.Errorf("summary = %+v, want all zero", s)
	}
	if !s.Empty() {
		t.Error("Empty() = false, want true")
	}
}

// TestGroupByMonth 只输出有记录的月份，升序，计数守恒
func TestGroupByMonth(t *testing.T) {
	txs := []models.Transaction{
		mkTx(1, models.TypeExpense, 30_00, "2025-03-10", ""),
		mkTx(2, models.TypeIncome, 100_00, "2025-01-05", ""),
		mkTx(3, models.TypeIncome, 50_00, "2025-03-01", ""),
		mkTx(4, models.TypeExpense, 20_00, "2025-01-20", ""),
	}

	buckets := GroupByMonth(txs)
	if len(buckets) != 2 {
		t.Fatalf("len(buckets) = %d, want 2 (2025-02 没有记录不应出现)", len(buckets))
	}
	if buckets[0].Month != "2025-01" || buckets[1].Month != "2025-03" {
		t.Errorf("months = [%s %s], want [2025-01 2025-03]", buckets[0].Month, buckets[1].Month)
	}

	if buckets[0].IncomeCent != 100_00 || buckets[0].ExpenseCent != 20_00 {
		t.Errorf("2025-01 = %+v, want income 10000 expense 2000", buckets[0])
	}

	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	if total != len(txs) {
		t.Errorf("sum of counts = %d, want %d", total, len(txs))
	}
}

// TestGroupByMonth_OnlyExpense 只有支出的月份 income 为 0 但桶要在
func TestGroupByMonth_OnlyExpense(t *testing.T) {
	txs := []models.Transaction{
		mkTx(1, models.TypeExpense, 12_00, "2025-05-01", ""),
	}

	buckets := GroupByMonth(txs)
	if len(buckets) != 1 {
		t.Fatalf("len(buckets) = %d, want 1", len(buckets))
	}
	if buckets[0].IncomeCent != 0 || buckets[0].ExpenseCent != 12_00 {
		t.Errorf("bucket = %+v, want income 0 expense 1200", buckets[0])
	}
}

// TestGroupByCategory_Uncategorized 空类别统一归入"未分类"
func TestGroupByCategory_Uncategorized(t *testing.T) {
	txs := []models.Transaction{
		mkTx(1, models.TypeExpense, 10_00, "2025-01-01", ""),
		mkTx(2, models.TypeExpense, 5_00, "2025-01-02", ""),
	}

	buckets := GroupByCategory(txs, models.TypeExpense)
	if len(buckets) != 1 {
		t.Fatalf("len(buckets) = %d, want 1", len(buckets))
	}
	if buckets[0].Category != UncategorizedLabel {
		t.Errorf("category = %q, want %q", buckets[0].Category, UncategorizedLabel)
	}
	if buckets[0].AmountCent != 15_00 {
		t.Errorf("amount = %d, want 1500", buckets[0].AmountCent)
	}
}

// TestGroupByCategory_InsertionOrder 按类别首次出现的顺序输出（前端按位置配色）
func TestGroupByCategory_InsertionOrder(t *testing.T) {
	txs := []models.Transaction{
		mkTx(1, models.TypeExpense, 10_00, "2025-01-01", "聚餐"),
		mkTx(2, models.TypeExpense, 5_00, "2025-01-02", "打印"),
		mkTx(3, models.TypeExpense, 3_00, "2025-01-03", "聚餐"),
		mkTx(4, models.TypeExpense, 2_00, "2025-01-04", "水电"),
	}

	buckets := GroupByCategory(txs, models.TypeExpense)
	wantOrder := []string{"聚餐", "打印", "水电"}
	if len(buckets) != len(wantOrder) {
		t.Fatalf("len(buckets) = %d, want %d", len(buckets), len(wantOrder))
	}
	for i, w := range wantOrder {
		if buckets[i].Category != w {
			t.Errorf("buckets[%d].Category = %q, want %q", i, buckets[i].Category, w)
		}
	}
	if buckets[0].AmountCent != 13_00 {
		t.Errorf("聚餐 amount = %d, want 1300", buckets[0].AmountCent)
	}
}

// TestGroupByCategory_TotalEqualsSummaryExpense 类别桶合计 == 汇总支出
func TestGroupByCategory_TotalEqualsSummaryExpense(t *testing.T) {
	txs := []models.Transaction{
		mkTx(1, models.TypeExpense, 10_50, "2025-01-01", "聚餐"),
		mkTx(2, models.TypeIncome, 200_00, "2025-01-02", "班费收缴"),
		mkTx(3, models.TypeExpense, 7_25, "2025-01-03", ""),
		mkTx(4, models.TypeExpense, 1_11, "2025-01-04", "打印"),
	}

	buckets := GroupByCategory(txs, models.TypeExpense)
	var total int64
	for _, b := range buckets {
		total += b.AmountCent
	}

	s := ComputeSummary(txs, "", "")
	if total != s.ExpenseCent {
		t.Errorf("category total = %d, summary expense = %d, want equal", total, s.ExpenseCent)
	}
}

// TestGroupByCategory_FilterByType 只统计指定类型
func TestGroupByCategory_FilterByType(t *testing.T) {
	txs := []models.Transaction{
		mkTx(1, models.TypeIncome, 100_00, "2025-01-01", "班费收缴"),
		mkTx(2, models.TypeExpense, 10_00, "2025-01-02", "聚餐"),
	}

	buckets := GroupByCategory(txs, models.TypeExpense)
	if len(buckets) != 1 || buckets[0].Category != "聚餐" {
		t.Fatalf("buckets = %+v, want 只有聚餐", buckets)
	}
}
