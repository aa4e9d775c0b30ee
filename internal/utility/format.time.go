package utility

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDateBound parse YYYY-MM-DD hoặc RFC3339.
// Với ngày thuần (không có giờ), endOfDay = true trả về 23:59:59.999 của ngày đó theo loc.
func ParseDateBound(s string, loc *time.Location, endOfDay bool) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}

	if t, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
		if endOfDay {
			// ngày có chuyển giờ (DST) không đủ 24h, lấy nửa đêm hôm sau trừ 1ms
			y, m, d := t.Date()
			t = time.Date(y, m, d+1, 0, 0, 0, 0, loc).Add(-time.Millisecond)
		}
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// FileTimestamp định dạng thời gian cho tên file xuất: yyyyMMdd-HHmmss
func FileTimestamp(t time.Time) string {
	return t.Format("20060102-150405")
}
