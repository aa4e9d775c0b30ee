package models

// SalesMetrics chỉ số KPI kỳ hiện tại và % thay đổi so với kỳ trước cùng độ dài
type SalesMetrics struct {
	Revenue              float64 `json:"revenue"`
	RevenueChange        float64 `json:"revenueChange"`
	Orders               float64 `json:"orders"`
	OrdersChange         float64 `json:"ordersChange"`
	AvgOrderValue        float64 `json:"avgOrderValue"`
	AvgOrderValueChange  float64 `json:"avgOrderValueChange"`
	ConversionRate       float64 `json:"conversionRate"`
	ConversionRateChange float64 `json:"conversionRateChange"`
}

// SalesAnalytics dữ liệu dashboard bán hàng
type SalesAnalytics struct {
	Metrics             SalesMetrics `json:"metrics"`
	SalesTrend          []Row        `json:"salesTrend"`
	ChannelPerformance  []Row        `json:"channelPerformance"`
	SourceDistribution  []Row        `json:"sourceDistribution"`
	PaymentMethods      []Row        `json:"paymentMethods"`
	TopProducts         []Row        `json:"topProducts"`
	SalesRepPerformance []Row        `json:"salesRepPerformance"`
	OrderStatusFunnel   []Row        `json:"orderStatusFunnel"`
}

// FilterOption một lựa chọn của filter select/multi_select
type FilterOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
