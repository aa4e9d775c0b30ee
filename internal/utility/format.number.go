package utility

import (
	"encoding/json"
	"math"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ToFloat64 chuyển giá trị số trả về từ MongoDB (int32, int64, double, Decimal128...) sang float64.
// Giá trị không phải số trả về 0, false.
func ToFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case primitive.Decimal128:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return 0, false
		}
		return d.InexactFloat64(), true
	case decimal.Decimal:
		return n.InexactFloat64(), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// Float lấy float64, không phải số thì 0
func Float(v any) float64 {
	f, _ := ToFloat64(v)
	return f
}

// Round2 làm tròn 2 chữ số thập phân (half away from zero). NaN/Inf về 0.
func Round2(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return decimal.NewFromFloat(f).Round(2).InexactFloat64()
}

func decimalString(f float64) string {
	return decimal.NewFromFloat(f).String()
}
