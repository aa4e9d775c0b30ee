package logger

import (
	"time"

	"inventory_commerce/internal/common"

	"github.com/sirupsen/logrus"
)

// ReportAccess là một dòng audit cho mỗi lần chạy/xuất báo cáo.
// Chỉ ghi tên các filter, không ghi giá trị.
type ReportAccess struct {
	RequestID  string
	ReportID   string
	FilterKeys []string
	Page       int
	PageSize   int
	Export     string
	Rows       int
	Duration   time.Duration
	Err        error
}

// LogReportAccess ghi audit + performance cho một lần chạy báo cáo
func LogReportAccess(a ReportAccess) {
	fields := logrus.Fields{
		"request_id":  a.RequestID,
		"report_id":   a.ReportID,
		"filter_keys": a.FilterKeys,
		"page":        a.Page,
		"page_size":   a.PageSize,
		"rows":        a.Rows,
	}
	if a.Export != "" {
		fields["export"] = a.Export
	}

	GetPerformanceLogger().WithFields(logrus.Fields{
		"report_id":   a.ReportID,
		"duration_ms": a.Duration.Milliseconds(),
	}).Debug("Report executed")

	if a.Err != nil {
		if common.IsStoreError(a.Err) {
			fields["store_error"] = true
		}
		GetErrorLogger().WithFields(fields).WithError(a.Err).Error("Report failed")
		return
	}
	GetAuditLogger().WithFields(fields).Info("Report accessed")
}
