package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"inventory_commerce/config"
	"inventory_commerce/internal/api/report/catalog"
	"inventory_commerce/internal/api/report/export"
	"inventory_commerce/internal/api/report/filter"
	"inventory_commerce/internal/api/report/models"
	reportsvc "inventory_commerce/internal/api/report/service"
	"inventory_commerce/internal/common"
	"inventory_commerce/internal/database"
	"inventory_commerce/internal/global"
	"inventory_commerce/internal/logger"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type exportOptions struct {
	format  string
	filters []string
	out     string
	sortBy  string
	order   string
}

func newExportCmd() *cobra.Command {
	o := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export <reportId>",
		Short: "Chạy một báo cáo và ghi file csv/excel/pdf",
		Example: `  reportctl export sales-orders --filter dateRange='{"start":"2024-01-01","end":"2024-01-31"}' --format excel
  reportctl export low-stock --filter warehouse=HN --out low-stock.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], o)
		},
	}
	cmd.Flags().StringVarP(&o.format, "format", "f", string(models.ExportCSV), "định dạng file: csv, excel, pdf")
	cmd.Flags().StringArrayVar(&o.filters, "filter", nil, "giá trị filter dạng key=value (lặp lại được)")
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "file đầu ra (mặc định <reportId>-<thời gian>.<ext>)")
	cmd.Flags().StringVar(&o.sortBy, "sort-by", "", "cột sắp xếp")
	cmd.Flags().StringVar(&o.order, "sort-order", "", "asc hoặc desc")
	return cmd
}

// parseFilterFlags tách các cặp key=value; chỉ tách ở dấu = đầu tiên
func parseFilterFlags(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --filter %q, expected key=value", p)
		}
		out[key] = value
	}
	return out, nil
}

// buildParams dựng ReportParams cho lần xuất; lỗi filter trả về ValidationError như API
func buildParams(def models.ReportDefinition, o *exportOptions, loc *time.Location) (models.ReportParams, error) {
	format := models.ExportFormat(o.format)
	if !export.Valid(format) {
		return models.ReportParams{}, common.NewFormatError("format", o.format)
	}

	raw, err := parseFilterFlags(o.filters)
	if err != nil {
		return models.ReportParams{}, err
	}
	values, errs := filter.ParseAndValidate(raw, def.Filters, loc)
	if len(errs) > 0 {
		return models.ReportParams{}, common.NewValidationError("", errs)
	}

	params := models.ReportParams{Filters: values, Export: format}
	if o.sortBy != "" {
		params.Sort = &models.SortSpec{Column: o.sortBy, Direction: models.SortDirection(o.order)}
	}
	return params, nil
}

func runExport(cmd *cobra.Command, reportID string, o *exportOptions) error {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	cfg := config.NewConfig(files...)
	if cfg == nil {
		return fmt.Errorf("failed to load configuration")
	}
	global.InitValidator()

	cat, err := catalog.DefaultWith(global.MongoDB_ColNames)
	if err != nil {
		return err
	}
	def, ok := cat.Get(reportID)
	if !ok {
		return common.NewNotFoundError(reportID)
	}

	params, err := buildParams(def, o, cfg.Location())
	if err != nil {
		return describe(err)
	}

	client, err := database.GetInstance(cfg)
	if err != nil {
		return err
	}
	defer database.CloseInstance(client)

	store := database.NewMongoAggregator(client.Database(cfg.MongoDB_DBName_Data), global.RegistryCollections, cfg.QueryTimeout())
	gen := reportsvc.NewGenerator(store, cat, reportsvc.OptionsFromConfig(cfg))

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	data, err := gen.ExportReport(ctx, def, params)
	if err != nil {
		return describe(err)
	}

	out := o.out
	if out == "" {
		out = export.FileName(def.ID, params.Export, gen.Now())
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}

	logger.GetAppLogger().WithFields(logrus.Fields{
		"report_id":   def.ID,
		"format":      params.Export,
		"bytes":       len(data),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Report exported")
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// describe thêm details của *common.Error vào message để người dùng CLI thấy filter nào sai
func describe(err error) error {
	var e *common.Error
	if errors.As(err, &e) && e.Details != nil {
		return fmt.Errorf("%s: %v", e.Message, e.Details)
	}
	return err
}
