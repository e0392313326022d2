package domain

// TrendStats pairs a total count with its growth trend: the last seven days
// of new records as a percentage of everything older. When nothing existed
// before this week the trend is 100 for any growth, 0 otherwise.
type TrendStats struct {
	Total int64   `json:"total"`
	Trend float64 `json:"trend"`
}

// SystemHealth reports coarse component status strings for the admin
// dashboard.
type SystemHealth struct {
	API   string `json:"api"`
	DB    string `json:"db"`
	Cache string `json:"cache"`
}

// AdminStats is the read-only counter and trend report behind the admin
// dashboard.
type AdminStats struct {
	Users  TrendStats   `json:"users"`
	Trips  TrendStats   `json:"trips"`
	Health SystemHealth `json:"system_health"`
}
