package reportdto

// SalesAnalyticsQuery GET /analytics/sales
type SalesAnalyticsQuery struct {
	StartDate string `query:"startDate" validate:"required"`
	EndDate   string `query:"endDate" validate:"required"`
	Warehouse string `query:"warehouse"`
	Channel   string `query:"channel"`
	SalesRep  string `query:"salesRep"`
}
