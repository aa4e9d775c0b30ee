package shaping

import (
	"testing"

	"inventory_commerce/internal/api/report/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestPercentChange(t *testing.T) {
	cases := []struct {
		name             string
		current, compare float64
		want             float64
	}{
		{"cả hai bằng 0", 0, 0, 0},
		{"kỳ trước bằng 0", 50, 0, 100},
		{"tăng", 5000, 4000, 25},
		{"giảm", 3000, 4000, -25},
		{"làm tròn", 1, 3, -66.67},
		{"giảm về 0", 0, 10, -100},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, PercentChange(c.current, c.compare))
		})
	}
}

func TestSafeDivide(t *testing.T) {
	assert.Equal(t, 0.0, SafeDivide(10, 0))
	assert.Equal(t, 0.0, SafeDivide(0, 0))
	assert.Equal(t, 2.5, SafeDivide(5, 2))
}

func TestPercentOfTotal_SumsTo100(t *testing.T) {
	rows := []models.Row{
		{"channel": "online", "revenue": 100.0},
		{"channel": "store", "revenue": 100.0},
		{"channel": "phone", "revenue": 100.0},
	}
	rows = PercentOfTotal(rows, "revenue", "percentage")

	var sum float64
	for _, r := range rows {
		assert.Equal(t, 33.33, r["percentage"])
		sum += r["percentage"].(float64)
	}
	assert.InDelta(t, 100, sum, 0.01*float64(len(rows)))
}

func TestPercentOfTotal_ZeroTotal(t *testing.T) {
	rows := PercentOfTotal([]models.Row{{"revenue": 0.0}, {"revenue": int32(0)}}, "revenue", "percentage")
	for _, r := range rows {
		assert.Equal(t, 0.0, r["percentage"])
	}
}

func TestBackfill(t *testing.T) {
	expected := []string{"draft", "confirmed", "processing", "shipped", "delivered", "cancelled"}
	rows := []models.Row{
		{"status": "shipped", "orders": int32(4)},
		{"status": "on_hold", "orders": int32(1)},
		{"status": "draft", "orders": int32(2)},
	}
	out := Backfill(rows, "status", expected, models.Row{"orders": 0, "revenue": 0.0})

	require.Len(t, out, len(expected)+1)
	for i, k := range expected {
		assert.Equal(t, k, out[i]["status"])
	}
	assert.Equal(t, int32(2), out[0]["orders"])
	assert.Equal(t, 0, out[1]["orders"])
	assert.Equal(t, 0.0, out[1]["revenue"])
	assert.Equal(t, "on_hold", out[len(out)-1]["status"], "key lạ được giữ lại ở cuối")

	// mỗi dòng backfill là bản sao riêng
	out[1]["orders"] = 99
	assert.Equal(t, 0, out[2]["orders"])
}

func TestBackfill_EmptyInput(t *testing.T) {
	out := Backfill(nil, "method", []string{"cash", "card"}, models.Row{"revenue": 0.0})
	require.Len(t, out, 2)
	assert.Equal(t, "cash", out[0]["method"])
}

func TestShapeKPIs(t *testing.T) {
	results := []bson.M{{
		"current":    bson.A{bson.M{"_id": nil, "revenue": 5000.0, "orderCount": int32(10), "totalOrders": int32(20)}},
		"comparison": bson.A{bson.M{"_id": nil, "revenue": 4000.0, "orderCount": int32(8), "totalOrders": int32(10)}},
	}}
	k := ShapeKPIs(results)

	assert.Equal(t, MetricValue{Current: 5000, Comparison: 4000, PercentChange: 25}, k.Revenue)
	assert.Equal(t, MetricValue{Current: 10, Comparison: 8, PercentChange: 25}, k.Orders)
	assert.Equal(t, MetricValue{Current: 500, Comparison: 500, PercentChange: 0}, k.AvgOrderValue)
	assert.Equal(t, MetricValue{Current: 50, Comparison: 80, PercentChange: -37.5}, k.ConversionRate)
}

func TestShapeKPIs_Empty(t *testing.T) {
	k := ShapeKPIs(nil)
	assert.Equal(t, KPISet{}, k)

	k = ShapeKPIs([]bson.M{{"current": bson.A{}, "comparison": bson.A{}}})
	assert.Equal(t, KPISet{}, k)
}

func TestRoundRow(t *testing.T) {
	r := RoundRow(models.Row{"a": 1.23456, "b": int32(3), "c": "x"})
	assert.Equal(t, 1.23, r["a"])
	assert.Equal(t, int32(3), r["b"])
	assert.Equal(t, "x", r["c"])
}
