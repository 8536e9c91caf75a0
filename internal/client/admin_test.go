package client

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func websiteList() any {
	return []any{
		map[string]any{"hostname": "example.com", "timezone": "UTC", "public": true, "created_at": "2023-06-01"},
		map[string]any{"hostname": "blog.example.com", "timezone": "Europe/Amsterdam", "public": false, "label": "Blog"},
	}
}

func TestAdminListWebsites(t *testing.T) {
	ft := &fakeTransport{result: websiteList()}
	admin := &AdminAPI{t: ft}

	sites, err := admin.ListWebsites()
	require.NoError(t, err)

	assert.Equal(t, "/api/websites", ft.endpoint)
	assert.Equal(t, "GET", ft.method)
	assert.True(t, ft.requireAuth)

	require.Len(t, sites, 2)
	assert.Equal(t, Website{Hostname: "example.com", Timezone: "UTC", Public: true, CreatedAt: "2023-06-01"}, sites[0])
	assert.Equal(t, Website{Hostname: "blog.example.com", Timezone: "Europe/Amsterdam", Label: "Blog"}, sites[1])
}

func TestAdminAddWebsiteDefaults(t *testing.T) {
	ft := &fakeTransport{result: map[string]any{"hostname": "newsite.com", "timezone": "UTC"}}
	admin := &AdminAPI{t: ft}

	site, err := admin.AddWebsite("newsite.com")
	require.NoError(t, err)

	assert.Equal(t, "/api/websites/add", ft.endpoint)
	assert.Equal(t, "POST", ft.method)
	assert.True(t, ft.requireAuth)
	assert.Equal(t, "newsite.com", site.Hostname)

	body, ok := ft.body.(websiteBody)
	require.True(t, ok)
	assert.Equal(t, "newsite.com", body.Hostname)
	assert.Equal(t, "UTC", body.Timezone)
	assert.False(t, body.Public)

	// An unset label must be omitted from the wire body entirely.
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "label")
}

func TestAdminAddWebsiteOptions(t *testing.T) {
	ft := &fakeTransport{result: map[string]any{"hostname": "newsite.com"}}
	admin := &AdminAPI{t: ft}

	_, err := admin.AddWebsite("newsite.com",
		WithSiteTimezone("America/New_York"),
		AsPublic(),
		WithLabel("New Project"),
	)
	require.NoError(t, err)

	body, ok := ft.body.(websiteBody)
	require.True(t, ok)
	assert.Equal(t, "America/New_York", body.Timezone)
	assert.True(t, body.Public)
	assert.Equal(t, "New Project", body.Label)
}

func TestAdminGetWebsiteFound(t *testing.T) {
	ft := &fakeTransport{result: websiteList()}
	admin := &AdminAPI{t: ft}

	site, err := admin.GetWebsite("blog.example.com")
	require.NoError(t, err)

	require.NotNil(t, site)
	assert.Equal(t, "Blog", site.Label)
	assert.Equal(t, 1, ft.calls, "lookup is a filter over the list, not an extra call")
}

func TestAdminGetWebsiteMissing(t *testing.T) {
	ft := &fakeTransport{result: websiteList()}
	admin := &AdminAPI{t: ft}

	site, err := admin.GetWebsite("missing.com")
	require.NoError(t, err)

	assert.Nil(t, site)
	assert.Equal(t, 1, ft.calls)
}

func TestAdminPropagatesTransportError(t *testing.T) {
	ft := &fakeTransport{err: &Error{Kind: KindAuthentication, Message: "nope", StatusCode: 403}}
	admin := &AdminAPI{t: ft}

	_, err := admin.ListWebsites()
	assert.ErrorIs(t, err, ErrAuthentication)

	_, err = admin.GetWebsite("example.com")
	assert.ErrorIs(t, err, ErrAuthentication)
}
