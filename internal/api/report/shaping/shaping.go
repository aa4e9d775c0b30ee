// Package shaping xử lý kết quả sau aggregation: tỷ trọng, so sánh kỳ, backfill key.
package shaping

import (
	"math"

	"inventory_commerce/internal/api/report/models"
	"inventory_commerce/internal/utility"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SafeDivide a/b, b == 0 (hoặc kết quả không hữu hạn) trả về 0
func SafeDivide(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	r := a / b
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// PercentChange phần trăm thay đổi so với kỳ trước, làm tròn 2 chữ số.
// comparison = 0: 0 nếu current = 0, ngược lại 100.
func PercentChange(current, comparison float64) float64 {
	if comparison == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return utility.Round2((current - comparison) / comparison * 100)
}

// MetricValue giá trị một chỉ số ở hai kỳ
type MetricValue struct {
	Current       float64 `json:"current"`
	Comparison    float64 `json:"comparison"`
	PercentChange float64 `json:"percentChange"`
}

// NewMetricValue tạo MetricValue, giá trị được làm tròn 2 chữ số
func NewMetricValue(current, comparison float64) MetricValue {
	return MetricValue{
		Current:       utility.Round2(current),
		Comparison:    utility.Round2(comparison),
		PercentChange: PercentChange(current, comparison),
	}
}

// PercentOfTotal tính tỷ trọng outKey = valueKey / tổng * 100 (hai lượt: tính tổng rồi chia)
func PercentOfTotal(rows []models.Row, valueKey, outKey string) []models.Row {
	var total float64
	for _, r := range rows {
		total += utility.Float(r[valueKey])
	}
	return PercentOfGivenTotal(rows, valueKey, outKey, total)
}

// PercentOfGivenTotal như PercentOfTotal nhưng dùng tổng cho sẵn (tổng của toàn bộ kết quả khi đang phân trang)
func PercentOfGivenTotal(rows []models.Row, valueKey, outKey string, total float64) []models.Row {
	for _, r := range rows {
		if total > 0 {
			r[outKey] = utility.Round2(utility.Float(r[valueKey]) / total * 100)
		} else {
			r[outKey] = 0.0
		}
	}
	return rows
}

// Backfill đảm bảo mọi key trong expected có mặt theo đúng thứ tự; key thiếu nhận bản sao của zero.
// Key ngoài expected được giữ lại ở cuối theo thứ tự ban đầu.
func Backfill(rows []models.Row, keyField string, expected []string, zero models.Row) []models.Row {
	byKey := make(map[string]models.Row, len(rows))
	for _, r := range rows {
		if k, ok := r[keyField].(string); ok {
			if _, dup := byKey[k]; !dup {
				byKey[k] = r
			}
		}
	}

	out := make([]models.Row, 0, len(expected)+len(rows))
	used := make(map[string]bool, len(expected))
	for _, k := range expected {
		if used[k] {
			continue
		}
		used[k] = true
		if r, ok := byKey[k]; ok {
			out = append(out, r)
			continue
		}
		row := make(models.Row, len(zero)+1)
		for zk, zv := range zero {
			row[zk] = zv
		}
		row[keyField] = k
		out = append(out, row)
	}

	for _, r := range rows {
		k, ok := r[keyField].(string)
		if ok && used[k] {
			continue
		}
		out = append(out, r)
	}
	return out
}

// RoundRow làm tròn các giá trị số thực của row về 2 chữ số thập phân; số nguyên giữ nguyên
func RoundRow(r models.Row) models.Row {
	for k, v := range r {
		switch n := v.(type) {
		case float64:
			r[k] = utility.Round2(n)
		case float32:
			r[k] = utility.Round2(float64(n))
		case primitive.Decimal128:
			r[k] = utility.Round2(utility.Float(n))
		}
	}
	return r
}
