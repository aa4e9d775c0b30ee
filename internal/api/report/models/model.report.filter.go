package models

import "time"

// FilterValue giá trị filter đã parse. Các biến thể: DateRangeValue, SelectValue,
// MultiSelectValue, NumberValue, SearchValue. Tập biến thể đóng, package khác không thêm được.
type FilterValue interface {
	Type() FilterType
	filterValue()
}

// DateRangeValue khoảng thời gian [Start, End], End tính cả mili giây cuối
type DateRangeValue struct {
	Start time.Time
	End   time.Time
}

// SelectValue một giá trị
type SelectValue struct {
	Value string
}

// MultiSelectValue tập giá trị (đã sắp xếp, không trùng)
type MultiSelectValue struct {
	Values []string
}

// NumberValue giá trị số hữu hạn
type NumberValue struct {
	Value float64
}

// SearchValue chuỗi tìm kiếm tự do
type SearchValue struct {
	Text string
}

func (DateRangeValue) Type() FilterType   { return FilterDateRange }
func (SelectValue) Type() FilterType      { return FilterSelect }
func (MultiSelectValue) Type() FilterType { return FilterMultiSelect }
func (NumberValue) Type() FilterType      { return FilterNumber }
func (SearchValue) Type() FilterType      { return FilterSearch }

func (DateRangeValue) filterValue()   {}
func (SelectValue) filterValue()      {}
func (MultiSelectValue) filterValue() {}
func (NumberValue) filterValue()      {}
func (SearchValue) filterValue()      {}
