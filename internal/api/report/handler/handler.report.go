// Package reporthdl HTTP handler của API báo cáo: danh mục, chạy/xuất báo cáo, dashboard, lựa chọn filter.
package reporthdl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	basehdl "inventory_commerce/internal/api/base/handler"
	reportdto "inventory_commerce/internal/api/report/dto"
	"inventory_commerce/internal/api/report/export"
	"inventory_commerce/internal/api/report/filter"
	"inventory_commerce/internal/api/report/models"
	reportsvc "inventory_commerce/internal/api/report/service"
	"inventory_commerce/internal/common"
	"inventory_commerce/internal/global"
	"inventory_commerce/internal/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ReportHandler xử lý các route /reports và /analytics
type ReportHandler struct {
	Generator     *reportsvc.Generator
	Analytics     *reportsvc.AnalyticsService
	FilterOptions *reportsvc.FilterOptionsService
	validate      *validator.Validate
}

// NewReportHandler tạo mới ReportHandler
func NewReportHandler(gen *reportsvc.Generator, analytics *reportsvc.AnalyticsService, options *reportsvc.FilterOptionsService) *ReportHandler {
	v := global.Validate
	if v == nil {
		v = global.NewValidator()
	}
	return &ReportHandler{Generator: gen, Analytics: analytics, FilterOptions: options, validate: v}
}

// validationError đổi lỗi validator thành ValidationError với details {field: tag}
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
		return common.NewValidationError("", details)
	}
	return common.NewValidationError(err.Error(), nil)
}

// HandleListReports GET /reports?category=
func (h *ReportHandler) HandleListReports(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var q reportdto.CatalogQuery
		if err := c.Bind().Query(&q); err != nil {
			return basehdl.WriteError(c, validationError(err))
		}
		cat := h.Generator.Catalog()
		defs := cat.List()
		if q.Category != "" {
			defs = cat.ByCategory(q.Category)
		}
		return basehdl.WriteSuccess(c, reportdto.NewCatalogItems(defs))
	})
}

// HandleFilterOptions GET /reports/filters?type=&collection=
func (h *ReportHandler) HandleFilterOptions(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var q reportdto.FilterOptionsQuery
		if err := c.Bind().Query(&q); err != nil {
			return basehdl.WriteError(c, validationError(err))
		}
		if err := h.validate.Struct(q); err != nil {
			return basehdl.WriteError(c, validationError(err))
		}
		opts, err := h.FilterOptions.GetFilterOptions(logger.ContextFromRequest(c), q.Type, q.Collection)
		if err != nil {
			return basehdl.WriteError(c, err)
		}
		return basehdl.WriteSuccess(c, opts)
	})
}

// reportQuery query string dạng map; startDate/endDate được gộp vào filter date_range nếu nó không có mặt
func reportQuery(c fiber.Ctx, def models.ReportDefinition) map[string]string {
	query := c.Queries()
	spec, ok := def.DateFilter()
	if !ok || query[spec.Key] != "" {
		return query
	}
	start, end := query["startDate"], query["endDate"]
	if start == "" && end == "" {
		return query
	}
	raw, err := json.Marshal(map[string]string{"start": start, "end": end})
	if err == nil {
		query[spec.Key] = string(raw)
	}
	return query
}

func filterKeys(filters map[string]models.FilterValue) []string {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// HandleReport GET /reports/:category/:reportId?page=&pageSize=&sortBy=&sortOrder=&export=&<filterKey>=
func (h *ReportHandler) HandleReport(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		path := reportdto.ReportPath{Category: c.Params("category"), ReportID: c.Params("reportId")}
		if err := h.validate.Struct(path); err != nil {
			return basehdl.WriteError(c, common.NewNotFoundError(path.ReportID))
		}
		def, err := h.Generator.Lookup(path.Category, path.ReportID)
		if err != nil {
			return basehdl.WriteError(c, err)
		}

		var q reportdto.ReportQuery
		if err := c.Bind().Query(&q); err != nil {
			return basehdl.WriteError(c, validationError(err))
		}
		q.ApplyDefaults()
		if err := h.validate.Struct(q); err != nil {
			return basehdl.WriteError(c, validationError(err))
		}

		filters, ferrs := filter.ParseAndValidate(reportQuery(c, def), def.Filters, h.Generator.Location())
		if len(ferrs) > 0 {
			return basehdl.WriteError(c, common.NewValidationError("", ferrs))
		}
		params := q.ToParams(filters)

		ctx := context.WithValue(logger.ContextFromRequest(c), logger.ReportIDKey, def.ID)
		access := logger.ReportAccess{
			RequestID:  logger.RequestID(c),
			ReportID:   def.ID,
			FilterKeys: filterKeys(filters),
			Page:       params.Pagination.Page,
			PageSize:   params.Pagination.PageSize,
			Export:     string(params.Export),
		}
		start := time.Now()

		if params.Export != "" {
			data, err := h.Generator.ExportReport(ctx, def, params)
			access.Duration, access.Err = time.Since(start), err
			logger.LogReportAccess(access)
			if err != nil {
				return basehdl.WriteError(c, err)
			}
			c.Set(fiber.HeaderContentType, export.ContentType(params.Export))
			c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, export.FileName(def.ID, params.Export, h.Generator.Now())))
			return c.Status(common.StatusOK).Send(data)
		}

		result, err := h.Generator.GenerateReport(ctx, def, params)
		access.Duration, access.Err = time.Since(start), err
		if result != nil {
			access.Rows = len(result.Results)
		}
		logger.LogReportAccess(access)
		if err != nil {
			return basehdl.WriteError(c, err)
		}
		return basehdl.JSONResponse(c, common.StatusOK, reportdto.NewReportResponse(result))
	})
}

// HandleSalesAnalytics GET /analytics/sales?startDate=&endDate=&warehouse=&channel=&salesRep=
func (h *ReportHandler) HandleSalesAnalytics(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var q reportdto.SalesAnalyticsQuery
		if err := c.Bind().Query(&q); err != nil {
			return basehdl.WriteError(c, validationError(err))
		}
		if err := h.validate.Struct(q); err != nil {
			return basehdl.WriteError(c, validationError(err))
		}

		start := time.Now()
		out, err := h.Analytics.GetSalesAnalytics(logger.ContextFromRequest(c), reportsvc.SalesAnalyticsQuery{
			StartDate: q.StartDate,
			EndDate:   q.EndDate,
			Warehouse: q.Warehouse,
			Channel:   q.Channel,
			SalesRep:  q.SalesRep,
		})
		logger.LogReportAccess(logger.ReportAccess{
			RequestID: logger.RequestID(c),
			ReportID:  "analytics-sales",
			Duration:  time.Since(start),
			Err:       err,
		})
		if err != nil {
			return basehdl.WriteError(c, err)
		}
		return basehdl.WriteSuccess(c, out)
	})
}
