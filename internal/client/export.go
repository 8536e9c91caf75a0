package client

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ExportAPI exports raw datapoints (pageviews or events) for a website.
// Every export call requires both credentials.
type ExportAPI struct {
	t transport
}

// exportQuery collects the optional parameters of an export request.
type exportQuery struct {
	format   string
	fields   []string
	timezone string
	robots   bool
	dataType string
}

// ExportOption configures an export request.
type ExportOption func(*exportQuery)

// WithFormat sets the output format: "json" (default) or "csv".
func WithFormat(format string) ExportOption {
	return func(q *exportQuery) { q.format = format }
}

// WithExportFields selects which columns to include: added_iso, path,
// country_code, device_type, browser_name, the utm_* fields, and so on.
func WithExportFields(fields ...string) ExportOption {
	return func(q *exportQuery) { q.fields = fields }
}

// WithExportTimezone sets the timezone used for date calculations.
func WithExportTimezone(tz string) ExportOption {
	return func(q *exportQuery) { q.timezone = tz }
}

// WithRobots includes bot traffic, which is excluded by default.
func WithRobots() ExportOption {
	return func(q *exportQuery) { q.robots = true }
}

// WithDataType selects the datapoint type: "pageviews" (default) or "events".
func WithDataType(dataType string) ExportOption {
	return func(q *exportQuery) { q.dataType = dataType }
}

// Datapoints exports raw datapoints between start and end. Both bounds
// accept a date (YYYY-MM-DD) or an hour (YYYY-MM-DDTHH) and are passed
// through verbatim; the API rejects malformed values with a validation
// error.
//
// The result is a generic JSON value (a list of records) for the json
// format, or the raw CSV string for the csv format.
func (e *ExportAPI) Datapoints(hostname, start, end string, opts ...ExportOption) (any, error) {
	q := exportQuery{format: "json", dataType: "pageviews"}
	for _, opt := range opts {
		opt(&q)
	}

	params := url.Values{}
	params.Set("version", strconv.Itoa(APIVersion))
	params.Set("hostname", hostname)
	params.Set("start", start)
	params.Set("end", end)
	params.Set("format", q.format)
	params.Set("type", q.dataType)
	params.Set("robots", strconv.FormatBool(q.robots))

	if len(q.fields) > 0 {
		params.Set("fields", strings.Join(q.fields, ","))
	}
	if q.timezone != "" {
		params.Set("timezone", q.timezone)
	}

	return e.t.Get("/api/export/datapoints", params, true)
}

// Pageviews exports pageview datapoints.
func (e *ExportAPI) Pageviews(hostname, start, end string, opts ...ExportOption) (any, error) {
	opts = append(opts, WithDataType("pageviews"))
	return e.Datapoints(hostname, start, end, opts...)
}

// Events exports event datapoints.
func (e *ExportAPI) Events(hostname, start, end string, opts ...ExportOption) (any, error) {
	opts = append(opts, WithDataType("events"))
	return e.Datapoints(hostname, start, end, opts...)
}

// ToCSV exports datapoints in CSV form and returns the CSV text.
func (e *ExportAPI) ToCSV(hostname, start, end string, opts ...ExportOption) (string, error) {
	opts = append(opts, WithFormat("csv"))
	res, err := e.Datapoints(hostname, start, end, opts...)
	if err != nil {
		return "", err
	}
	csv, ok := res.(string)
	if !ok {
		return "", &Error{Kind: KindGeneric, Message: fmt.Sprintf("unexpected response shape %T, want CSV text", res)}
	}
	return csv, nil
}
