package filter

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"inventory_commerce/internal/api/report/models"
	"inventory_commerce/internal/utility"
)

type dateRangeInput struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ParseDateRange parse chuỗi JSON {"start","end"}; mỗi đầu là YYYY-MM-DD hoặc RFC3339.
// Ngày thuần ở đầu end được hiểu là cuối ngày (23:59:59.999).
func ParseDateRange(raw string, loc *time.Location) (models.DateRangeValue, bool) {
	var in dateRangeInput
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return models.DateRangeValue{}, false
	}
	return DateRangeFrom(in.Start, in.End, loc)
}

// DateRangeFrom tạo DateRangeValue từ hai chuỗi ngày riêng (startDate, endDate)
func DateRangeFrom(start, end string, loc *time.Location) (models.DateRangeValue, bool) {
	s, ok := utility.ParseDateBound(start, loc, false)
	if !ok {
		return models.DateRangeValue{}, false
	}
	e, ok := utility.ParseDateBound(end, loc, true)
	if !ok {
		return models.DateRangeValue{}, false
	}
	return models.DateRangeValue{Start: s, End: e}, true
}

// ParseFilters giải mã query string theo kiểu của từng spec.
// Giá trị rỗng coi như không có; lỗi giải mã dùng cùng mã lỗi với ValidateFilters.
func ParseFilters(query map[string]string, specs []models.FilterSpec, loc *time.Location) (map[string]models.FilterValue, []FilterError) {
	out := make(map[string]models.FilterValue, len(specs))
	errs := make([]FilterError, 0)

	for _, spec := range specs {
		raw := strings.TrimSpace(query[spec.Key])
		if raw == "" {
			continue
		}

		switch spec.Type {
		case models.FilterDateRange:
			v, ok := ParseDateRange(raw, loc)
			if !ok {
				errs = append(errs, InvalidDateRange(spec.Key))
				continue
			}
			out[spec.Key] = v
		case models.FilterSelect:
			out[spec.Key] = models.SelectValue{Value: raw}
		case models.FilterMultiSelect:
			out[spec.Key] = models.MultiSelectValue{Values: utility.SplitCSV(raw)}
		case models.FilterNumber:
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				errs = append(errs, InvalidNumber(spec.Key))
				continue
			}
			out[spec.Key] = models.NumberValue{Value: f}
		case models.FilterSearch:
			out[spec.Key] = models.SearchValue{Text: raw}
		}
	}
	return out, errs
}

// ParseAndValidate parse rồi validate; lỗi parse đã có thì không báo lặp lại cho cùng key
func ParseAndValidate(query map[string]string, specs []models.FilterSpec, loc *time.Location) (map[string]models.FilterValue, []FilterError) {
	values, errs := ParseFilters(query, specs, loc)

	failed := make(map[string]bool, len(errs))
	for _, e := range errs {
		failed[e.Key] = true
	}
	for _, e := range ValidateFilters(values, specs) {
		if e.Code == CodeMissingFilter && failed[e.Key] {
			continue
		}
		errs = append(errs, e)
	}
	return values, errs
}
