package utility

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ToDoc chuẩn hóa document lồng nhau (bson.M, bson.D, map) về bson.M
func ToDoc(v any) (bson.M, bool) {
	switch d := v.(type) {
	case bson.M:
		return d, true
	case map[string]any:
		return bson.M(d), true
	case bson.D:
		m := make(bson.M, len(d))
		for _, e := range d {
			m[e.Key] = e.Value
		}
		return m, true
	}
	return nil, false
}

// ToDocs chuẩn hóa mảng document (bson.A, []any, []bson.M) về []bson.M, bỏ phần tử không phải document
func ToDocs(v any) []bson.M {
	var items []any
	switch a := v.(type) {
	case bson.A:
		items = a
	case []any:
		items = a
	case []bson.M:
		return a
	default:
		return nil
	}
	out := make([]bson.M, 0, len(items))
	for _, it := range items {
		if d, ok := ToDoc(it); ok {
			out = append(out, d)
		}
	}
	return out
}

// KeyString chuyển _id nhóm sang chuỗi (ObjectID -> hex)
func KeyString(v any) string {
	switch k := v.(type) {
	case string:
		return k
	case primitive.ObjectID:
		return k.Hex()
	case nil:
		return ""
	}
	if f, ok := ToFloat64(v); ok {
		return decimalString(f)
	}
	return fmt.Sprint(v)
}
