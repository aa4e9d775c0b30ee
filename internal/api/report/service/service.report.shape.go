package reportsvc

import (
	"cmp"
	"slices"
	"strings"

	"inventory_commerce/internal/api/report/models"
	"inventory_commerce/internal/api/report/pipeline"
	"inventory_commerce/internal/api/report/shaping"
	"inventory_commerce/internal/utility"

	"go.mongodb.org/mongo-driver/bson"
)

// percentTotalKey tổng nội bộ trong facet summary để tính tỷ trọng, không trả về client
const percentTotalKey = "__percentTotal"

// toRows đổi document thành row: _id sang KeyColumn (hoặc bỏ). Giá trị giữ nguyên độ chính xác,
// chỉ làm tròn ở roundRows sau khi đã tính tỷ trọng.
func toRows(def models.ReportDefinition, docs []bson.M) []models.Row {
	rows := make([]models.Row, 0, len(docs))
	for _, d := range docs {
		row := models.Row(d)
		if id, ok := row["_id"]; ok {
			if def.KeyColumn != "" {
				row[def.KeyColumn] = utility.KeyString(id)
			}
			delete(row, "_id")
		}
		rows = append(rows, row)
	}
	return rows
}

// roundRows làm tròn 2 chữ số, bước cuối cùng trước khi trả về
func roundRows(rows []models.Row) []models.Row {
	for i := range rows {
		rows[i] = shaping.RoundRow(rows[i])
	}
	return rows
}

// zeroRow giá trị mặc định cho key không có dữ liệu: cột số = 0
func zeroRow(def models.ReportDefinition) models.Row {
	zero := models.Row{}
	for _, c := range def.Columns {
		switch c.Format {
		case models.FormatNumber, models.FormatMoney, models.FormatPercent:
			zero[c.Key] = float64(0)
		}
	}
	return zero
}

// shapeKeyed định hình báo cáo có bộ key chuẩn: backfill, tỷ trọng, sắp xếp.
// Không có sort của client thì theo DefaultSort; SortCanonical giữ thứ tự của bộ key.
func shapeKeyed(def models.ReportDefinition, docs []bson.M, keys []string, explicitSort bool, s models.SortSpec) []models.Row {
	rows := shaping.Backfill(toRows(def, docs), def.KeyColumn, keys, zeroRow(def))
	if def.Percentage != nil {
		rows = shaping.PercentOfTotal(rows, def.Percentage.ValueKey, def.Percentage.OutKey)
	}
	switch {
	case s.Direction == models.SortCanonical:
	case explicitSort:
		sortRows(rows, s, "")
	default:
		sortRows(rows, s, def.KeyColumn)
	}
	return rows
}

// shapePercent tỷ trọng của trang hiện tại so với tổng toàn bộ tập kết quả
func shapePercent(def models.ReportDefinition, rows []models.Row, total float64) []models.Row {
	return shaping.PercentOfGivenTotal(rows, def.Percentage.ValueKey, def.Percentage.OutKey, total)
}

// sortRows sắp xếp ổn định theo s; tieKey khác rỗng thì dòng bằng nhau xếp theo key tăng dần
func sortRows(rows []models.Row, s models.SortSpec, tieKey string) {
	slices.SortStableFunc(rows, func(a, b models.Row) int {
		c := compareValues(a[s.Column], b[s.Column])
		if s.Direction == models.SortDesc {
			c = -c
		}
		if c == 0 && tieKey != "" && tieKey != s.Column {
			c = compareValues(a[tieKey], b[tieKey])
		}
		return c
	})
}

func compareValues(a, b any) int {
	fa, okA := utility.ToFloat64(a)
	fb, okB := utility.ToFloat64(b)
	if okA && okB {
		return cmp.Compare(fa, fb)
	}
	return strings.Compare(utility.KeyString(a), utility.KeyString(b))
}

func pageSlice(rows []models.Row, page, size int) []models.Row {
	start := (page - 1) * size
	if start >= len(rows) {
		return []models.Row{}
	}
	end := min(start+size, len(rows))
	return rows[start:end]
}

// storeSort cột key của báo cáo gom nhóm nằm ở _id trong store
func storeSort(def models.ReportDefinition, s models.SortSpec) models.SortSpec {
	if def.KeyColumn != "" && s.Column == def.KeyColumn {
		s.Column = "_id"
	}
	return s
}

// summaryGroup $group của facet summary, kèm tổng nội bộ cho tỷ trọng
func summaryGroup(def models.ReportDefinition) bson.M {
	group := pipeline.SummaryGroup(def.Summary)
	if def.Percentage != nil {
		if group == nil {
			group = bson.M{"_id": nil}
		}
		group[percentTotalKey] = bson.M{"$sum": "$" + def.Percentage.ValueKey}
	}
	return group
}

type facetResult struct {
	rows         []models.Row
	total        int64
	summary      map[string]float64
	percentTotal float64
}

// readFacet đọc kết quả của $facet {results, total, summary}
func readFacet(def models.ReportDefinition, docs []bson.M) facetResult {
	f := facetResult{rows: []models.Row{}}
	var sum bson.M
	if len(docs) > 0 {
		d := docs[0]
		f.rows = toRows(def, utility.ToDocs(d[pipeline.FacetResults]))
		if t := utility.ToDocs(d[pipeline.FacetTotal]); len(t) > 0 {
			f.total = int64(utility.Float(t[0]["count"]))
		}
		if s := utility.ToDocs(d[pipeline.FacetSummary]); len(s) > 0 {
			sum = s[0]
		}
	}

	if len(def.Summary) > 0 {
		f.summary = make(map[string]float64, len(def.Summary))
		for _, spec := range def.Summary {
			f.summary[spec.Key] = utility.Round2(utility.Float(sum[spec.Key]))
		}
	}
	f.percentTotal = utility.Float(sum[percentTotalKey])
	return f
}

// summarizeRows summary tính trong bộ nhớ cho báo cáo đã backfill
func summarizeRows(specs []models.SummarySpec, rows []models.Row) map[string]float64 {
	if len(specs) == 0 {
		return nil
	}
	out := make(map[string]float64, len(specs))
	for _, s := range specs {
		var acc float64
		switch s.Op {
		case "count":
			acc = float64(len(rows))
		case "avg":
			for _, r := range rows {
				acc += utility.Float(r[s.Field])
			}
			acc = shaping.SafeDivide(acc, float64(len(rows)))
		case "min", "max":
			for i, r := range rows {
				v := utility.Float(r[s.Field])
				if i == 0 || (s.Op == "min" && v < acc) || (s.Op == "max" && v > acc) {
					acc = v
				}
			}
		default:
			for _, r := range rows {
				acc += utility.Float(r[s.Field])
			}
		}
		out[s.Key] = utility.Round2(acc)
	}
	return out
}
