package client

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// StatsAPI queries aggregated statistics for a website. Stats endpoints are
// public: no credentials are required, but configured credentials are still
// sent so private websites resolve for their owner.
type StatsAPI struct {
	t transport
}

// statsQuery collects the optional parameters of a stats request. It exists
// only long enough to be serialized into query parameters.
type statsQuery struct {
	path     string
	start    string
	end      string
	timezone string
	fields   []string
	limit    int
	info     bool
	interval string
	events   []string
	filters  map[string]string
}

// StatsOption configures a stats query. Parameters not set by an option are
// omitted from the request entirely.
type StatsOption func(*statsQuery)

// WithPath scopes the query to a single page path, e.g. "/pricing".
func WithPath(path string) StatsOption {
	return func(q *statsQuery) { q.path = path }
}

// WithDateRange sets the start and end dates (YYYY-MM-DD). Either may be
// empty to keep the API default for that bound.
func WithDateRange(start, end string) StatsOption {
	return func(q *statsQuery) {
		q.start = start
		q.end = end
	}
}

// WithTimezone sets the timezone used for date calculations,
// e.g. "Europe/Amsterdam".
func WithTimezone(tz string) StatsOption {
	return func(q *statsQuery) { q.timezone = tz }
}

// WithFields selects which fields to retrieve: pageviews, visitors,
// histogram, pages, countries, referrers, the utm_* breakdowns,
// browser_names, os_names, device_types, seconds_on_page.
func WithFields(fields ...string) StatsOption {
	return func(q *statsQuery) { q.fields = fields }
}

// WithLimit caps the number of results per breakdown list (1-1000).
func WithLimit(n int) StatsOption {
	return func(q *statsQuery) { q.limit = n }
}

// WithoutInfo drops the field metadata the API includes by default.
func WithoutInfo() StatsOption {
	return func(q *statsQuery) { q.info = false }
}

// WithInterval sets the histogram granularity: hour, day, week, month, year.
func WithInterval(interval string) StatsOption {
	return func(q *statsQuery) { q.interval = interval }
}

// WithEvents selects event names to retrieve. Pass "*" for all events.
func WithEvents(events ...string) StatsOption {
	return func(q *statsQuery) { q.events = events }
}

// WithFilter adds a single filter parameter, e.g. ("country", "US") or
// ("page", "/blog*"). Wildcards with "*" are supported by the API.
func WithFilter(key, value string) StatsOption {
	return func(q *statsQuery) {
		if q.filters == nil {
			q.filters = make(map[string]string)
		}
		q.filters[key] = value
	}
}

// WithFilters merges a set of filter parameters into the query.
func WithFilters(filters map[string]string) StatsOption {
	return func(q *statsQuery) {
		if q.filters == nil {
			q.filters = make(map[string]string, len(filters))
		}
		for k, v := range filters {
			q.filters[k] = v
		}
	}
}

// Get retrieves aggregated statistics for a website.
//
// The endpoint is /{hostname}.json, or /{hostname}/{path}.json when
// WithPath is given. Only parameters set via options are sent; the API
// picks its own defaults for the rest (start defaults to a month ago,
// end to today).
func (s *StatsAPI) Get(hostname string, opts ...StatsOption) (map[string]any, error) {
	q := statsQuery{info: true}
	for _, opt := range opts {
		opt(&q)
	}

	endpoint := "/" + hostname + ".json"
	if q.path != "" {
		endpoint = "/" + hostname + "/" + strings.TrimLeft(q.path, "/") + ".json"
	}

	params := url.Values{}
	params.Set("version", strconv.Itoa(APIVersion))
	params.Set("info", strconv.FormatBool(q.info))

	if q.start != "" {
		params.Set("start", q.start)
	}
	if q.end != "" {
		params.Set("end", q.end)
	}
	if q.timezone != "" {
		params.Set("timezone", q.timezone)
	}
	if q.limit > 0 {
		params.Set("limit", strconv.Itoa(q.limit))
	}
	if q.interval != "" {
		params.Set("interval", q.interval)
	}
	if len(q.fields) > 0 {
		params.Set("fields", strings.Join(q.fields, ","))
	}
	if len(q.events) > 0 {
		params.Set("events", strings.Join(q.events, ","))
	}
	for key, value := range q.filters {
		params.Set(key, value)
	}

	res, err := s.t.Get(endpoint, params, false)
	if err != nil {
		return nil, err
	}
	return asObject(res)
}

// GetEvents retrieves event statistics. All events are returned unless
// WithEvents narrows the selection.
func (s *StatsAPI) GetEvents(hostname string, opts ...StatsOption) (map[string]any, error) {
	q := statsQuery{}
	for _, opt := range opts {
		opt(&q)
	}
	if len(q.events) == 0 {
		opts = append(opts, WithEvents("*"))
	}
	return s.Get(hostname, opts...)
}

// GetHistogram retrieves time-series pageview and visitor counts. The
// interval defaults to day unless WithInterval overrides it.
func (s *StatsAPI) GetHistogram(hostname string, opts ...StatsOption) (map[string]any, error) {
	q := statsQuery{}
	for _, opt := range opts {
		opt(&q)
	}
	if q.interval == "" {
		opts = append(opts, WithInterval("day"))
	}
	opts = append(opts, WithFields("histogram"))
	return s.Get(hostname, opts...)
}

// asObject narrows a generic response value to a JSON object.
func asObject(res any) (map[string]any, error) {
	obj, ok := res.(map[string]any)
	if !ok {
		return nil, &Error{Kind: KindGeneric, Message: fmt.Sprintf("unexpected response shape %T, want object", res)}
	}
	return obj, nil
}
