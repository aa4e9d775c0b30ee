package filter

import (
	"math"
	"testing"
	"time"

	"inventory_commerce/internal/api/report/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSpecs = []models.FilterSpec{
	{Key: "dateRange", Type: models.FilterDateRange, Required: true, Field: "orderDate"},
	{Key: "warehouse", Type: models.FilterSelect, Field: "warehouse"},
	{Key: "status", Type: models.FilterMultiSelect, Field: "status"},
	{Key: "minTotal", Type: models.FilterNumber, Field: "grandTotal", Operator: "gte"},
	{Key: "q", Type: models.FilterSearch, SearchFields: []string{"orderNumber"}},
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidateFilters_MissingRequired(t *testing.T) {
	errs := ValidateFilters(map[string]models.FilterValue{}, testSpecs)
	require.Len(t, errs, 1)
	assert.Equal(t, CodeMissingFilter, errs[0].Code)
	assert.Equal(t, "dateRange", errs[0].Key)
}

func TestValidateFilters_InvertedDateRange(t *testing.T) {
	errs := ValidateFilters(map[string]models.FilterValue{
		"dateRange": models.DateRangeValue{Start: day(2024, 2, 1), End: day(2024, 1, 1)},
	}, testSpecs)
	require.Len(t, errs, 1)
	assert.Equal(t, InvalidDateRange("dateRange"), errs[0])
}

func TestValidateFilters_SameDayIsValid(t *testing.T) {
	d := day(2024, 1, 1)
	errs := ValidateFilters(map[string]models.FilterValue{
		"dateRange": models.DateRangeValue{Start: d, End: d},
	}, testSpecs)
	assert.Empty(t, errs)
}

func TestValidateFilters_NonFiniteNumber(t *testing.T) {
	for _, n := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		errs := ValidateFilters(map[string]models.FilterValue{
			"dateRange": models.DateRangeValue{Start: day(2024, 1, 1), End: day(2024, 1, 2)},
			"minTotal":  models.NumberValue{Value: n},
		}, testSpecs)
		require.Len(t, errs, 1)
		assert.Equal(t, CodeInvalidNumber, errs[0].Code)
	}
}

func TestValidateFilters_UnknownKeysIgnoredAndTypeMismatch(t *testing.T) {
	errs := ValidateFilters(map[string]models.FilterValue{
		"dateRange": models.DateRangeValue{Start: day(2024, 1, 1), End: day(2024, 1, 2)},
		"unknown":   models.SelectValue{Value: "x"},
		"warehouse": models.NumberValue{Value: 1},
	}, testSpecs)
	require.Len(t, errs, 1)
	assert.Equal(t, CodeInvalidType, errs[0].Code)
	assert.Equal(t, "warehouse", errs[0].Key)
}

func TestParseFilters_MultiSelectSetSemantics(t *testing.T) {
	a, errs := ParseFilters(map[string]string{"status": "a,b"}, testSpecs, time.UTC)
	require.Empty(t, errs)
	b, errs := ParseFilters(map[string]string{"status": " b , a,,a"}, testSpecs, time.UTC)
	require.Empty(t, errs)
	assert.Equal(t, a["status"], b["status"])
	assert.Equal(t, models.MultiSelectValue{Values: []string{"a", "b"}}, b["status"])
}

func TestParseFilters_DateRange(t *testing.T) {
	values, errs := ParseFilters(map[string]string{
		"dateRange": `{"start":"2024-01-01","end":"2024-01-31"}`,
	}, testSpecs, time.UTC)
	require.Empty(t, errs)
	dr := values["dateRange"].(models.DateRangeValue)
	assert.Equal(t, day(2024, 1, 1), dr.Start)
	assert.Equal(t, day(2024, 2, 1).Add(-time.Millisecond), dr.End)

	_, errs = ParseFilters(map[string]string{"dateRange": `not-json`}, testSpecs, time.UTC)
	require.Len(t, errs, 1)
	assert.Equal(t, CodeInvalidDateRange, errs[0].Code)
}

func TestParseAndValidate(t *testing.T) {
	_, errs := ParseAndValidate(map[string]string{
		"dateRange": `{"start":"2024-03-01","end":"2024-01-01"}`,
		"minTotal":  "abc",
	}, testSpecs, time.UTC)
	codes := map[string]string{}
	for _, e := range errs {
		codes[e.Key] = e.Code
	}
	assert.Equal(t, map[string]string{"dateRange": CodeInvalidDateRange, "minTotal": CodeInvalidNumber}, codes)

	// date không parse được: chỉ báo InvalidDateRange, không báo thêm MissingFilter
	_, errs = ParseAndValidate(map[string]string{"dateRange": "{}"}, testSpecs, time.UTC)
	require.Len(t, errs, 1)
	assert.Equal(t, CodeInvalidDateRange, errs[0].Code)

	values, errs := ParseAndValidate(map[string]string{
		"dateRange": `{"start":"2024-01-01","end":"2024-01-31"}`,
		"warehouse": " HN ",
		"q":         "SO-1",
	}, testSpecs, time.UTC)
	assert.Empty(t, errs)
	assert.Equal(t, models.SelectValue{Value: "HN"}, values["warehouse"])
	assert.Equal(t, models.SearchValue{Text: "SO-1"}, values["q"])
}
