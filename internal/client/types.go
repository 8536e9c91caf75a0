package client

// Website is a website registration as returned by the Admin API.
type Website struct {
	Hostname  string `json:"hostname"`
	Timezone  string `json:"timezone"`
	Public    bool   `json:"public"`
	Label     string `json:"label,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Stats field names accepted by WithFields.
const (
	FieldPageviews     = "pageviews"
	FieldVisitors      = "visitors"
	FieldHistogram     = "histogram"
	FieldPages         = "pages"
	FieldCountries     = "countries"
	FieldReferrers     = "referrers"
	FieldUTMSources    = "utm_sources"
	FieldUTMMediums    = "utm_mediums"
	FieldUTMCampaigns  = "utm_campaigns"
	FieldUTMContents   = "utm_contents"
	FieldUTMTerms      = "utm_terms"
	FieldBrowserNames  = "browser_names"
	FieldOSNames       = "os_names"
	FieldDeviceTypes   = "device_types"
	FieldSecondsOnPage = "seconds_on_page"
)

// Histogram intervals accepted by WithInterval.
const (
	IntervalHour  = "hour"
	IntervalDay   = "day"
	IntervalWeek  = "week"
	IntervalMonth = "month"
	IntervalYear  = "year"
)

// Export formats accepted by WithFormat.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Datapoint types accepted by WithDataType.
const (
	DataTypePageviews = "pageviews"
	DataTypeEvents    = "events"
)
