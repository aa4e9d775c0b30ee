// Package pipeline dựng các stage aggregation MongoDB cho báo cáo.
// Mọi hàm đều thuần: cùng đầu vào cho cùng pipeline, không truy cập store.
package pipeline

import (
	"fmt"
	"time"

	"inventory_commerce/internal/api/report/models"
)

// Unit đơn vị thời gian nhỏ nhất của ngày trong MongoDB
const Unit = time.Millisecond

// DateWindow khoảng thời gian đóng [Start, End]
type DateWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// WindowOf tạo DateWindow từ giá trị filter
func WindowOf(v models.DateRangeValue) DateWindow {
	return DateWindow{Start: v.Start, End: v.End}
}

// Duration độ dài khoảng
func (w DateWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Comparison khoảng so sánh liền trước, cùng độ dài:
// End = Start - 1ms, Start = End - (w.End - w.Start)
func (w DateWindow) Comparison() DateWindow {
	end := w.Start.Add(-Unit)
	return DateWindow{Start: end.Add(-w.Duration()), End: end}
}

// WindowFromFilters lấy khoảng ngày từ filter date_range đầu tiên có giá trị
func WindowFromFilters(filters map[string]models.FilterValue, specs []models.FilterSpec) (DateWindow, models.FilterSpec, bool) {
	for _, spec := range specs {
		if spec.Type != models.FilterDateRange {
			continue
		}
		if v, ok := filters[spec.Key].(models.DateRangeValue); ok {
			return WindowOf(v), spec, true
		}
	}
	return DateWindow{}, models.FilterSpec{}, false
}

// TrendBucket độ mịn của trend
type TrendBucket string

const (
	BucketDay   TrendBucket = "day"
	BucketWeek  TrendBucket = "week"
	BucketMonth TrendBucket = "month"
)

// Ngưỡng mặc định (ngày)
const (
	DefaultWeekThresholdDays  = 92
	DefaultMonthThresholdDays = 366
)

// TrendBucketFor chọn bucket theo độ dài khoảng: > monthDays -> month, > weekDays -> week, còn lại day
func TrendBucketFor(w DateWindow, weekDays, monthDays int) TrendBucket {
	if weekDays <= 0 {
		weekDays = DefaultWeekThresholdDays
	}
	if monthDays <= 0 {
		monthDays = DefaultMonthThresholdDays
	}
	days := w.Duration().Hours() / 24
	switch {
	case days > float64(monthDays):
		return BucketMonth
	case days > float64(weekDays):
		return BucketWeek
	default:
		return BucketDay
	}
}

// dateFormat format $dateToString cho bucket; week theo ISO (2024-W05)
func (b TrendBucket) dateFormat() string {
	switch b {
	case BucketMonth:
		return "%Y-%m"
	case BucketWeek:
		return "%G-W%V"
	default:
		return "%Y-%m-%d"
	}
}

// Key khóa bucket của t, cùng định dạng với $dateToString
func (b TrendBucket) Key(t time.Time) string {
	switch b {
	case BucketMonth:
		return t.Format("2006-01")
	case BucketWeek:
		y, wk := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", y, wk)
	default:
		return t.Format("2006-01-02")
	}
}

// TrendKeys danh sách key bucket liên tục trong khoảng (theo loc), dùng để backfill bucket rỗng
func TrendKeys(w DateWindow, b TrendBucket, loc *time.Location) []string {
	if loc == nil {
		loc = time.UTC
	}
	start, end := w.Start.In(loc), w.End.In(loc)
	if end.Before(start) {
		return nil
	}

	keys := make([]string, 0)
	seen := make(map[string]bool)
	cur := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	for !cur.After(end) {
		k := b.Key(cur)
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
		switch b {
		case BucketMonth:
			cur = time.Date(cur.Year(), cur.Month()+1, 1, 0, 0, 0, 0, loc)
		case BucketWeek:
			cur = cur.AddDate(0, 0, 7)
		default:
			cur = cur.AddDate(0, 0, 1)
		}
	}
	// tuần cuối có thể bị bước 7 ngày bỏ qua
	if k := b.Key(end); !seen[k] {
		keys = append(keys, k)
	}
	return keys
}
