package services

import "time"

// Balancing-authority and label constants shared by the fetch pipeline.
const (
	BAName = "ERCOT"

	FreqHourly  = "1hr"
	FreqFiveMin = "5m"

	MarketHourly   = "RTHR"
	MarketFiveMin  = "RT5M"
	MarketDayAhead = "DAHR"

	FuelWind    = "wind"
	FuelNonWind = "nonwind"
)

// Table is a parsed report: trimmed column names plus one string map per
// surviving row. Rows with any empty field are dropped at parse time.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// ReportEndpoint is the resolved download URL for one logical report at
// fetch time. The index rotates the underlying file, so endpoints are
// re-resolved on every call and never cached.
type ReportEndpoint struct {
	ReportID string
	URL      string
}

type FetchResult struct {
	URL        string
	StatusCode int
	Body       []byte
}

// LoadOptions selects the load retrieval mode. Exactly one of Latest or
// Forecast must be set; Start/End optionally window a forecast series and
// Market/Freq override the mode defaults.
type LoadOptions struct {
	Latest   bool
	Forecast bool
	Start    time.Time
	End      time.Time
	Market   string
	Freq     string
}
