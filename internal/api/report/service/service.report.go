// Package reportsvc chạy báo cáo theo danh mục: validate, dựng pipeline, thực thi, định hình kết quả và xuất file.
package reportsvc

import (
	"context"
	"time"

	"inventory_commerce/config"
	"inventory_commerce/internal/api/report/catalog"
	"inventory_commerce/internal/api/report/export"
	"inventory_commerce/internal/api/report/filter"
	"inventory_commerce/internal/api/report/models"
	"inventory_commerce/internal/api/report/pipeline"
	"inventory_commerce/internal/common"
	"inventory_commerce/internal/logger"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
)

// Aggregator store chỉ đọc: chạy pipeline trên một collection, trả về toàn bộ document
type Aggregator interface {
	Aggregate(ctx context.Context, collection string, pipeline []bson.M) ([]bson.M, error)
}

// Giá trị mặc định khi Options bỏ trống
const (
	DefaultExportMaxRows = 50000
	DefaultMaxPageSize   = 500
)

// Options tham số vận hành của generator
type Options struct {
	Location                *time.Location
	ExportMaxRows           int
	MaxPageSize             int
	TrendWeekThresholdDays  int
	TrendMonthThresholdDays int
	Now                     func() time.Time
}

// OptionsFromConfig đọc Options từ cấu hình ứng dụng
func OptionsFromConfig(cfg *config.Configuration) Options {
	return Options{
		Location:                cfg.Location(),
		ExportMaxRows:           cfg.Report_ExportMaxRows,
		MaxPageSize:             cfg.Report_MaxPageSize,
		TrendWeekThresholdDays:  cfg.Trend_WeekThresholdDays,
		TrendMonthThresholdDays: cfg.Trend_MonthThresholdDays,
	}
}

func (o Options) withDefaults() Options {
	o.Location = pipeline.StoreLocation(o.Location)
	if o.ExportMaxRows <= 0 {
		o.ExportMaxRows = DefaultExportMaxRows
	}
	if o.MaxPageSize <= 0 {
		o.MaxPageSize = DefaultMaxPageSize
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Generator chạy báo cáo trong danh mục. Không giữ trạng thái theo request, an toàn khi dùng đồng thời.
type Generator struct {
	store   Aggregator
	catalog *catalog.Catalog
	opts    Options
}

// NewGenerator tạo mới Generator
func NewGenerator(store Aggregator, cat *catalog.Catalog, opts Options) *Generator {
	return &Generator{store: store, catalog: cat, opts: opts.withDefaults()}
}

// Catalog danh mục báo cáo đang phục vụ
func (g *Generator) Catalog() *catalog.Catalog {
	return g.catalog
}

// Location múi giờ dùng để parse ngày của filter
func (g *Generator) Location() *time.Location {
	return g.opts.Location
}

// Now thời điểm hiện tại theo đồng hồ và múi giờ của generator
func (g *Generator) Now() time.Time {
	return g.opts.Now().In(g.opts.Location)
}

// Lookup tìm definition theo id; category rỗng thì không kiểm tra nhóm.
// Sai nhóm cũng là 404 để URL /reports/{category}/{id} không trỏ nhầm báo cáo.
func (g *Generator) Lookup(category, id string) (models.ReportDefinition, error) {
	def, ok := g.catalog.Get(id)
	if !ok || (category != "" && def.Category != category) {
		return models.ReportDefinition{}, common.NewNotFoundError(id)
	}
	return def, nil
}

// prepare validate filter + sort, dựng BuildRequest. Không chạm store.
func (g *Generator) prepare(def models.ReportDefinition, params models.ReportParams) (models.BuildRequest, models.SortSpec, error) {
	if errs := filter.ValidateFilters(params.Filters, def.Filters); len(errs) > 0 {
		return models.BuildRequest{}, models.SortSpec{}, common.NewValidationError("", errs)
	}

	sortSpec, err := resolveSort(def, params.Sort)
	if err != nil {
		return models.BuildRequest{}, models.SortSpec{}, err
	}

	req := models.BuildRequest{
		Filters: params.Filters,
		Specs:   def.Filters,
		Options: models.BuildOptions{
			Location:                g.opts.Location,
			TrendWeekThresholdDays:  g.opts.TrendWeekThresholdDays,
			TrendMonthThresholdDays: g.opts.TrendMonthThresholdDays,
		},
	}
	if req.Filters == nil {
		req.Filters = map[string]models.FilterValue{}
	}
	return req, sortSpec, nil
}

func resolveSort(def models.ReportDefinition, requested *models.SortSpec) (models.SortSpec, error) {
	if requested == nil || requested.Column == "" {
		return def.DefaultSort, nil
	}
	col, ok := def.Column(requested.Column)
	if !ok || !col.Sortable {
		return models.SortSpec{}, common.NewValidationError("Cột sắp xếp không hợp lệ", map[string]string{"sortBy": requested.Column})
	}
	dir := requested.Direction
	switch dir {
	case "":
		dir = models.SortAsc
	case models.SortAsc, models.SortDesc:
	default:
		return models.SortSpec{}, common.NewValidationError("Chiều sắp xếp không hợp lệ", map[string]string{"sortOrder": string(dir)})
	}
	return models.SortSpec{Column: col.Key, Direction: dir}, nil
}

func (g *Generator) validatePagination(p models.Pagination) error {
	details := map[string]string{}
	if p.Page < 1 {
		details["page"] = "page phải >= 1"
	}
	if p.PageSize < 1 || p.PageSize > g.opts.MaxPageSize {
		details["pageSize"] = "pageSize ngoài khoảng cho phép"
	}
	if len(details) > 0 {
		return common.NewValidationError("Tham số phân trang không hợp lệ", details)
	}
	return nil
}

// GenerateReport chạy một trang báo cáo. Lỗi validate trả về trước mọi truy vấn store.
func (g *Generator) GenerateReport(ctx context.Context, def models.ReportDefinition, params models.ReportParams) (*models.ReportResult, error) {
	req, sortSpec, err := g.prepare(def, params)
	if err != nil {
		return nil, err
	}
	if err := g.validatePagination(params.Pagination); err != nil {
		return nil, err
	}
	page, size := params.Pagination.Page, params.Pagination.PageSize

	var (
		rows    []models.Row
		total   int64
		summary map[string]float64
	)

	base := def.Build(req)
	if keys := def.ExpectedKeysFor(req); len(keys) > 0 {
		docs, err := g.aggregate(ctx, def.Collection, base)
		if err != nil {
			return nil, err
		}
		all := shapeKeyed(def, docs, keys, params.Sort != nil, sortSpec)
		summary = summarizeRows(def.Summary, all)
		total = int64(len(all))
		rows = roundRows(pageSlice(all, page, size))
	} else {
		stages := pipeline.Paginate(base, storeSort(def, sortSpec), page, size, summaryGroup(def))
		docs, err := g.aggregate(ctx, def.Collection, stages)
		if err != nil {
			return nil, err
		}
		f := readFacet(def, docs)
		rows, total, summary = f.rows, f.total, f.summary
		if def.Percentage != nil {
			rows = shapePercent(def, rows, f.percentTotal)
		}
		rows = roundRows(rows)
	}

	return &models.ReportResult{
		Results:    rows,
		Pagination: pageInfo(page, size, total),
		Summary:    summary,
		Metadata:   g.metadata(def, req, sortSpec),
	}, nil
}

// ExportReport chạy báo cáo không phân trang (giới hạn ExportMaxRows) và tuần tự hóa theo params.Export.
// Không có dòng nào vẫn trả về file chỉ có header.
func (g *Generator) ExportReport(ctx context.Context, def models.ReportDefinition, params models.ReportParams) ([]byte, error) {
	if !export.Valid(params.Export) {
		return nil, common.NewFormatError("export", string(params.Export))
	}
	rows, err := g.ExportRows(ctx, def, params)
	if err != nil {
		return nil, err
	}
	return export.Write(params.Export, export.Document{
		Title:    def.Name,
		Columns:  def.Columns,
		Rows:     rows,
		Location: g.opts.Location,
	})
}

// ExportRows toàn bộ dòng (đã định hình) dùng cho xuất file
func (g *Generator) ExportRows(ctx context.Context, def models.ReportDefinition, params models.ReportParams) ([]models.Row, error) {
	req, sortSpec, err := g.prepare(def, params)
	if err != nil {
		return nil, err
	}

	base := def.Build(req)
	if keys := def.ExpectedKeysFor(req); len(keys) > 0 {
		docs, err := g.aggregate(ctx, def.Collection, base)
		if err != nil {
			return nil, err
		}
		all := shapeKeyed(def, docs, keys, params.Sort != nil, sortSpec)
		if len(all) > g.opts.ExportMaxRows {
			all = all[:g.opts.ExportMaxRows]
		}
		return roundRows(all), nil
	}

	// Cần tỷ trọng trên toàn bộ tập kết quả, không chỉ phần bị cắt
	if def.Percentage != nil {
		stages := pipeline.Paginate(base, storeSort(def, sortSpec), 1, g.opts.ExportMaxRows, summaryGroup(def))
		docs, err := g.aggregate(ctx, def.Collection, stages)
		if err != nil {
			return nil, err
		}
		f := readFacet(def, docs)
		return roundRows(shapePercent(def, f.rows, f.percentTotal)), nil
	}

	docs, err := g.aggregate(ctx, def.Collection, pipeline.Capped(base, storeSort(def, sortSpec), g.opts.ExportMaxRows))
	if err != nil {
		return nil, err
	}
	return roundRows(toRows(def, docs)), nil
}

// aggregate gọi store; lỗi không thuộc taxonomy được bọc thành StoreError
func (g *Generator) aggregate(ctx context.Context, collection string, stages pipeline.Stages) ([]bson.M, error) {
	docs, err := g.store.Aggregate(ctx, collection, stages)
	if err != nil {
		logger.WithContext(ctx).WithFields(logrus.Fields{
			"collection": collection,
			"stages":     len(stages),
		}).WithError(err).Error("Aggregate thất bại")
		return nil, common.ConvertMongoError(err)
	}
	return docs, nil
}

func (g *Generator) metadata(def models.ReportDefinition, req models.BuildRequest, s models.SortSpec) map[string]any {
	meta := map[string]any{
		"reportId":    def.ID,
		"reportName":  def.Name,
		"category":    def.Category,
		"sort":        s,
		"generatedAt": g.Now().Format(time.RFC3339),
	}
	if w, _, ok := pipeline.WindowFromFilters(req.Filters, req.Specs); ok {
		cmp := w.Comparison()
		meta["dateRange"] = map[string]time.Time{"start": w.Start, "end": w.End}
		meta["comparisonRange"] = map[string]time.Time{"start": cmp.Start, "end": cmp.End}
	}
	return meta
}

func pageInfo(page, size int, total int64) models.PageInfo {
	pages := int64(0)
	if size > 0 {
		pages = (total + int64(size) - 1) / int64(size)
	}
	return models.PageInfo{Page: page, PageSize: size, Total: total, TotalPages: pages}
}
