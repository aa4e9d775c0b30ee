package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng
// Nó chứa thông tin cơ sở dữ liệu và các giới hạn của engine báo cáo
type Configuration struct {
	Address               string `env:"ADDRESS" envDefault:":8080"`                // Địa chỉ server
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`           // URL kết nối cơ sở dữ liệu
	MongoDB_DBName_Data   string `env:"MONGODB_DBNAME_DATA,required"`              // Tên cơ sở dữ liệu nghiệp vụ (đơn hàng, sản phẩm...)
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Các origins được phép (phân cách bởi dấu phẩy, * = tất cả)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Cho phép gửi credentials
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`           // Số request tối đa trong window (0 = disable rate limit)
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`         // Thời gian window (giây)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`      // Bật/tắt rate limiting
	// Report engine
	Report_Timezone            string `env:"REPORT_TIMEZONE" envDefault:"UTC"`             // Múi giờ dùng để parse ngày dạng YYYY-MM-DD
	Report_ExportMaxRows       int    `env:"REPORT_EXPORT_MAX_ROWS" envDefault:"50000"`    // Số dòng tối đa khi xuất file
	Report_MaxPageSize         int    `env:"REPORT_MAX_PAGE_SIZE" envDefault:"500"`        // pageSize tối đa
	Report_QueryTimeoutSeconds int    `env:"REPORT_QUERY_TIMEOUT_SECONDS" envDefault:"30"` // Timeout cho mỗi lần chạy pipeline
	Trend_WeekThresholdDays    int    `env:"TREND_WEEK_THRESHOLD_DAYS" envDefault:"92"`    // Khoảng > N ngày thì gom theo tuần
	Trend_MonthThresholdDays   int    `env:"TREND_MONTH_THRESHOLD_DAYS" envDefault:"366"`  // Khoảng > N ngày thì gom theo tháng
	// Log
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"` // debug, info, warn, error
	LogDir   string `env:"LOG_DIR" envDefault:"logs"`   // Thư mục chứa file log
}

// QueryTimeout trả về timeout cho mỗi truy vấn báo cáo
func (c *Configuration) QueryTimeout() time.Duration {
	if c.Report_QueryTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Report_QueryTimeoutSeconds) * time.Second
}

// Location trả về múi giờ báo cáo, sai tên thì về UTC
func (c *Configuration) Location() *time.Location {
	// "Local" và rỗng không phải tên IANA mà MongoDB hiểu
	if c.Report_Timezone == "" || c.Report_Timezone == "Local" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Report_Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CORSOrigins tách danh sách origins
func (c *Configuration) CORSOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORS_Origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường
func getEnvPath() string {
	// Mặc định sử dụng môi trường development
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}

	// Tìm thư mục config/env, đi dần lên thư mục cha
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", env))
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig đọc cấu hình từ file env (nếu có) rồi parse biến môi trường.
// files cho phép chỉ định file env cụ thể (dùng cho CLI/test).
func NewConfig(files ...string) *Configuration {
	if len(files) == 0 {
		if envPath := getEnvPath(); envPath != "" {
			files = []string{envPath}
		}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			// Không có file env thì vẫn dùng biến môi trường của process
			fmt.Printf("Không thể load file env tại %s: %v\n", f, err)
		}
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}

	return &cfg
}
