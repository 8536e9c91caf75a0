package client

import (
	"encoding/json"
	"fmt"
)

// AdminAPI manages the websites registered under the account. All admin
// calls require both credentials; adding websites additionally needs a
// Business or Enterprise plan on the API side.
type AdminAPI struct {
	t transport
}

// websiteBody is the JSON body of an add-website request. Label is
// omitted when empty.
type websiteBody struct {
	Hostname string `json:"hostname"`
	Timezone string `json:"timezone"`
	Public   bool   `json:"public"`
	Label    string `json:"label,omitempty"`
}

// WebsiteOption configures an add-website request.
type WebsiteOption func(*websiteBody)

// WithSiteTimezone sets the website's timezone (default UTC).
func WithSiteTimezone(tz string) WebsiteOption {
	return func(b *websiteBody) { b.Timezone = tz }
}

// AsPublic makes the website's stats publicly viewable.
func AsPublic() WebsiteOption {
	return func(b *websiteBody) { b.Public = true }
}

// WithLabel attaches a display label to the website.
func WithLabel(label string) WebsiteOption {
	return func(b *websiteBody) { b.Label = label }
}

// ListWebsites returns every website in the account.
func (a *AdminAPI) ListWebsites() ([]Website, error) {
	res, err := a.t.Get("/api/websites", nil, true)
	if err != nil {
		return nil, err
	}

	var websites []Website
	if err := decodeInto(res, &websites); err != nil {
		return nil, err
	}
	return websites, nil
}

// AddWebsite registers a new website under the account and returns its
// record as created by the API.
func (a *AdminAPI) AddWebsite(hostname string, opts ...WebsiteOption) (*Website, error) {
	body := websiteBody{Hostname: hostname, Timezone: "UTC"}
	for _, opt := range opts {
		opt(&body)
	}

	res, err := a.t.Post("/api/websites/add", body, true)
	if err != nil {
		return nil, err
	}

	var site Website
	if err := decodeInto(res, &site); err != nil {
		return nil, err
	}
	return &site, nil
}

// GetWebsite looks up a single website by hostname. It filters
// ListWebsites rather than making a per-hostname call (the API has none),
// and returns nil without error when the hostname is not registered.
// Callers that look up hostnames frequently should cache the list.
func (a *AdminAPI) GetWebsite(hostname string) (*Website, error) {
	websites, err := a.ListWebsites()
	if err != nil {
		return nil, err
	}
	for i := range websites {
		if websites[i].Hostname == hostname {
			return &websites[i], nil
		}
	}
	return nil, nil
}

// decodeInto converts a generic JSON value into a typed structure by
// round-tripping through encoding/json.
func decodeInto(res any, v any) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return &Error{Kind: KindGeneric, Message: fmt.Sprintf("re-encoding response: %v", err)}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &Error{Kind: KindGeneric, Message: fmt.Sprintf("unexpected response shape: %v", err)}
	}
	return nil
}
