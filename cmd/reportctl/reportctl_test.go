package main

import (
	"bytes"
	"testing"
	"time"

	"inventory_commerce/internal/api/report/catalog"
	"inventory_commerce/internal/api/report/models"
	"inventory_commerce/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilterFlags(t *testing.T) {
	got, err := parseFilterFlags([]string{"warehouse=HN", `dateRange={"start":"2024-01-01","end":"2024-01-31"}`, "search=a=b"})
	require.NoError(t, err)
	assert.Equal(t, "HN", got["warehouse"])
	assert.Equal(t, `{"start":"2024-01-01","end":"2024-01-31"}`, got["dateRange"])
	assert.Equal(t, "a=b", got["search"])

	_, err = parseFilterFlags([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseFilterFlags([]string{"=x"})
	assert.Error(t, err)
}

func TestBuildParams(t *testing.T) {
	def, ok := catalog.Default().Get("sales-orders")
	require.True(t, ok)

	_, err := buildParams(def, &exportOptions{format: "docx"}, time.UTC)
	assert.ErrorIs(t, err, common.ErrInvalidFormat)

	// dateRange bắt buộc
	_, err = buildParams(def, &exportOptions{format: "csv"}, time.UTC)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	params, err := buildParams(def, &exportOptions{
		format:  "excel",
		filters: []string{`dateRange={"start":"2024-01-01","end":"2024-01-31"}`},
		sortBy:  "grandTotal",
		order:   "desc",
	}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, models.ExportExcel, params.Export)
	require.NotNil(t, params.Sort)
	assert.Equal(t, models.SortDesc, params.Sort.Direction)
	assert.Contains(t, params.Filters, "dateRange")
}

func TestListCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"list", "--category", "inventory"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "stock-levels")
	assert.Contains(t, out.String(), "low-stock")
	assert.NotContains(t, out.String(), "sales-orders")

	cmd = newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"list", "--category", "nope"})
	assert.Error(t, cmd.Execute())
}
