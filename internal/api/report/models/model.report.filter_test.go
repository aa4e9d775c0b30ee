package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterValue_Variants(t *testing.T) {
	cases := map[FilterType]FilterValue{
		FilterDateRange:   DateRangeValue{},
		FilterSelect:      SelectValue{Value: "web"},
		FilterMultiSelect: MultiSelectValue{Values: []string{"a", "b"}},
		FilterNumber:      NumberValue{Value: 10},
		FilterSearch:      SearchValue{Text: "áo"},
	}
	for want, v := range cases {
		assert.Equal(t, want, v.Type())
	}
}
