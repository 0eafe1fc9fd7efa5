package model

// Catalog sources understood by AppConfig.CatalogSource.
const (
	CatalogStatic = "static"
	CatalogFile   = "file"
	CatalogSQL    = "sql"
)

// maxRecentExports bounds AppConfig.RecentExports.
const maxRecentExports = 10

// AppConfig holds application-wide preferences.
type AppConfig struct {
	// Board catalog
	CatalogSource  string `json:"catalog_source"`   // "static", "file" or "sql"
	CatalogFile    string `json:"catalog_file"`     // JSON board list, used by "file"
	CatalogDelayMS int    `json:"catalog_delay_ms"` // simulated latency of "static"
	DatabaseDriver string `json:"database_driver"`
	DatabaseURL    string `json:"database_url"`

	// Placement behavior
	StrictLookups bool `json:"strict_lookups"` // report unknown ids as the last error

	// Application preferences
	RecentExports []string `json:"recent_exports"`
	Theme         string   `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		CatalogSource:  CatalogStatic,
		CatalogDelayMS: 400,
		DatabaseDriver: "postgres",
		RecentExports:  []string{},
		Theme:          "system",
	}
}

// AddRecentExport records path as the most recent export, dropping any
// earlier entry for the same path.
func (c *AppConfig) AddRecentExport(path string) {
	recent := []string{path}
	for _, p := range c.RecentExports {
		if p != path {
			recent = append(recent, p)
		}
	}
	if len(recent) > maxRecentExports {
		recent = recent[:maxRecentExports]
	}
	c.RecentExports = recent
}
