package usecase

import "time"

const (
	// ReportCacheTTL is how long cached trial balance reports live.
	ReportCacheTTL = 15 * time.Minute

	// DefaultBaseCurrency scopes the forecast cash baseline when no
	// AssetInclude rows are configured.
	DefaultBaseCurrency = "USD"
)
