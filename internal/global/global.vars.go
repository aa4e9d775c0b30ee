package global

import (
	"inventory_commerce/config"
	"inventory_commerce/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_Data_CollectionName chứa tên các collection nghiệp vụ mà báo cáo đọc
type MongoDB_Data_CollectionName struct {
	SalesOrders    string // Đơn bán hàng
	PurchaseOrders string // Đơn mua hàng
	Products       string // Sản phẩm (tồn kho)
	Customers      string // Khách hàng
	Warehouses     string // Kho
	Categories     string // Danh mục
	Brands         string // Thương hiệu
	Suppliers      string // Nhà cung cấp
}

// DefaultCollectionNames tên collection mặc định
func DefaultCollectionNames() MongoDB_Data_CollectionName {
	return MongoDB_Data_CollectionName{
		SalesOrders:    "sales_orders",
		PurchaseOrders: "purchase_orders",
		Products:       "products",
		Customers:      "customers",
		Warehouses:     "warehouses",
		Categories:     "categories",
		Brands:         "brands",
		Suppliers:      "suppliers",
	}
}

// All trả về tất cả tên collection
func (n MongoDB_Data_CollectionName) All() []string {
	return []string{n.SalesOrders, n.PurchaseOrders, n.Products, n.Customers, n.Warehouses, n.Categories, n.Brands, n.Suppliers}
}

// Các biến toàn cục (chỉ handle hạ tầng, không chứa state báo cáo)
var Validate *validator.Validate                                            // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client                                           // Phiên kết nối tới MongoDB
var MongoDB_ServerConfig *config.Configuration                              // Cấu hình của server
var MongoDB_ColNames MongoDB_Data_CollectionName = DefaultCollectionNames() // Tên các collection

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
