package logger

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestAsyncHook_WritesAfterClose(t *testing.T) {
	out := &syncBuffer{}
	l := logrus.New()
	l.SetOutput(bytes.NewBuffer(nil))
	l.SetFormatter(&logrus.JSONFormatter{})
	hook := NewAsyncHook([]io.Writer{out}, 10)
	l.AddHook(hook)

	l.WithField("report_id", "sales-trend").Info("chạy báo cáo")
	require.NoError(t, hook.Close())
	assert.Contains(t, out.String(), "sales-trend")

	// sau Close vẫn ghi trực tiếp
	l.Info("sau khi đóng")
	assert.Contains(t, out.String(), "sau khi đóng")
	assert.NoError(t, hook.Close(), "Close lần hai không lỗi")
}

func TestLogReportAccess_NoFilterValues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(&LogConfig{Level: "debug", Format: "json", Output: "file", LogPath: dir,
		AppFile: "app.log", AuditFile: "audit.log", PerformanceFile: "perf.log", ErrorFile: "error.log"}))
	defer Shutdown()

	LogReportAccess(ReportAccess{ReportID: "sales-orders", FilterKeys: []string{"customer"}, Page: 1, PageSize: 20, Duration: time.Millisecond})
	LogReportAccess(ReportAccess{ReportID: "low-stock", Err: errors.New("boom")})
	Shutdown()

	audit := readFile(t, dir+"/audit.log")
	assert.Contains(t, audit, `"report_id":"sales-orders"`)
	assert.Contains(t, audit, `"filter_keys":["customer"]`)
	assert.True(t, strings.Contains(readFile(t, dir+"/error.log"), "low-stock"))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestWithContext_CarriesIDs(t *testing.T) {
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, ReportIDKey, "sales-trend")

	entry := WithContext(ctx)
	assert.Equal(t, "req-1", entry.Data["request_id"])
	assert.Equal(t, "sales-trend", entry.Data["report_id"])

	bare := WithContext(context.Background())
	assert.NotContains(t, bare.Data, "report_id")
}
