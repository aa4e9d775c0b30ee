package pipeline

import (
	"regexp"
	"strings"

	"inventory_commerce/internal/api/report/filter"
	"inventory_commerce/internal/api/report/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Stages pipeline aggregation có thứ tự; dựng mới cho mỗi request
type Stages = []bson.M

// Các field tạm do pipeline thêm vào document
const (
	DateAs      = "__reportDate"
	PeriodField = "period"
)

// Nhãn kỳ trong pipeline KPI
const (
	PeriodCurrent    = "current"
	PeriodComparison = "comparison"
)

// ExcludedStatuses trạng thái không tính là đơn đã chốt (áp dụng cho mọi chỉ số doanh thu/đơn)
var ExcludedStatuses = []string{"draft", "cancelled"}

// NormalizeDateStage chuyển field ngày (Date hoặc chuỗi ISO) về kiểu date, lỗi/null thành null
func NormalizeDateStage(field, as string) bson.M {
	return bson.M{"$addFields": bson.M{
		as: bson.M{"$convert": bson.M{
			"input":   "$" + field,
			"to":      "date",
			"onError": nil,
			"onNull":  nil,
		}},
	}}
}

// DateRangeMatch lọc field ngày đã chuẩn hóa trong [w.Start, w.End]
func DateRangeMatch(as string, w DateWindow) bson.M {
	return bson.M{"$match": bson.M{as: bson.M{"$gte": w.Start, "$lte": w.End}}}
}

// CommittedStatusCondition điều kiện đơn đã chốt
func CommittedStatusCondition() bson.M {
	return bson.M{"status": bson.M{"$nin": ExcludedStatuses}}
}

// committedExpr biểu thức 1/0 cho đơn đã chốt (dùng trong $group)
func committedExpr() bson.M {
	return bson.M{"$cond": bson.A{bson.M{"$in": bson.A{"$status", ExcludedStatuses}}, 0, 1}}
}

// Match điều kiện lọc theo chiều. Item là các điều kiện trên items.*,
// được áp dụng lại sau khi $unwind items.
type Match struct {
	Doc  []bson.M
	Item []bson.M
}

// With trả về Match mới có thêm điều kiện cấp document
func (m Match) With(conds ...bson.M) Match {
	doc := make([]bson.M, 0, len(m.Doc)+len(conds))
	doc = append(doc, m.Doc...)
	doc = append(doc, conds...)
	return Match{Doc: doc, Item: m.Item}
}

// DimensionMatch dựng điều kiện từ các filter không phải date_range.
// Giá trị rỗng hoặc "all" không tạo điều kiện.
func DimensionMatch(filters map[string]models.FilterValue, specs []models.FilterSpec) Match {
	var m Match
	for _, spec := range specs {
		if spec.Type == models.FilterDateRange {
			continue
		}
		v, ok := filters[spec.Key]
		if !ok || filter.IsEmpty(v) {
			continue
		}
		cond := condition(spec, v)
		if cond == nil {
			continue
		}
		m.Doc = append(m.Doc, cond)
		if strings.HasPrefix(spec.Field, "items.") {
			m.Item = append(m.Item, cond)
		}
	}
	return m
}

func condition(spec models.FilterSpec, v models.FilterValue) bson.M {
	switch x := v.(type) {
	case models.SelectValue:
		if x.Value == models.AllValue || spec.Field == "" {
			return nil
		}
		return bson.M{spec.Field: x.Value}
	case models.MultiSelectValue:
		values := make([]string, 0, len(x.Values))
		for _, s := range x.Values {
			if s == models.AllValue {
				return nil
			}
			values = append(values, s)
		}
		if len(values) == 0 || spec.Field == "" {
			return nil
		}
		return bson.M{spec.Field: bson.M{"$in": values}}
	case models.NumberValue:
		if spec.Field == "" {
			return nil
		}
		switch spec.Operator {
		case "gte", "lte", "gt", "lt":
			return bson.M{spec.Field: bson.M{"$" + spec.Operator: x.Value}}
		default:
			return bson.M{spec.Field: x.Value}
		}
	case models.SearchValue:
		fields := spec.SearchFields
		if len(fields) == 0 && spec.Field != "" {
			fields = []string{spec.Field}
		}
		if len(fields) == 0 {
			return nil
		}
		pattern := regexp.QuoteMeta(x.Text)
		or := make(bson.A, 0, len(fields))
		for _, f := range fields {
			or = append(or, bson.M{f: bson.M{"$regex": pattern, "$options": "i"}})
		}
		if len(or) == 1 {
			return or[0].(bson.M)
		}
		return bson.M{"$or": or}
	}
	return nil
}

// MatchStage gộp các điều kiện thành một $match; không có điều kiện thì trả về nil
func MatchStage(conds []bson.M) bson.M {
	switch len(conds) {
	case 0:
		return nil
	case 1:
		return bson.M{"$match": conds[0]}
	}
	and := make(bson.A, 0, len(conds))
	for _, c := range conds {
		and = append(and, c)
	}
	return bson.M{"$match": bson.M{"$and": and}}
}

// appendStage bỏ qua stage nil
func appendStage(stages Stages, s bson.M) Stages {
	if s == nil {
		return stages
	}
	return append(stages, s)
}

// SortStage sắp xếp theo cột rồi _id để phân trang ổn định
func SortStage(sort models.SortSpec) bson.M {
	keys := bson.D{{Key: sort.Column, Value: sort.Order()}}
	if sort.Column != "_id" {
		keys = append(keys, bson.E{Key: "_id", Value: 1})
	}
	return bson.M{"$sort": keys}
}

// SummaryGroup dựng $group tổng hợp toàn bộ kết quả theo SummarySpec
func SummaryGroup(specs []models.SummarySpec) bson.M {
	if len(specs) == 0 {
		return nil
	}
	group := bson.M{"_id": nil}
	for _, s := range specs {
		switch s.Op {
		case "count":
			group[s.Key] = bson.M{"$sum": 1}
		case "avg":
			group[s.Key] = bson.M{"$avg": "$" + s.Field}
		case "min":
			group[s.Key] = bson.M{"$min": "$" + s.Field}
		case "max":
			group[s.Key] = bson.M{"$max": "$" + s.Field}
		default:
			group[s.Key] = bson.M{"$sum": "$" + s.Field}
		}
	}
	return group
}

// Facet keys của Paginate
const (
	FacetResults = "results"
	FacetTotal   = "total"
	FacetSummary = "summary"
)

// Paginate nối $sort và $facet {results, total, summary} vào cuối base.
// skip/limit luôn nằm sau lọc, gom nhóm và sắp xếp.
func Paginate(base Stages, sort models.SortSpec, page, pageSize int, summary bson.M) Stages {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	facet := bson.M{
		FacetResults: bson.A{
			bson.M{"$skip": int64(page-1) * int64(pageSize)},
			bson.M{"$limit": int64(pageSize)},
		},
		FacetTotal: bson.A{bson.M{"$count": "count"}},
	}
	if summary != nil {
		facet[FacetSummary] = bson.A{bson.M{"$group": summary}}
	}

	out := make(Stages, 0, len(base)+2)
	out = append(out, base...)
	out = append(out, SortStage(sort), bson.M{"$facet": facet})
	return out
}

// Capped dùng cho xuất file: sort + giới hạn số dòng
func Capped(base Stages, sort models.SortSpec, maxRows int) Stages {
	out := make(Stages, 0, len(base)+2)
	out = append(out, base...)
	out = append(out, SortStage(sort))
	if maxRows > 0 {
		out = append(out, bson.M{"$limit": int64(maxRows)})
	}
	return out
}
