package client

import "net/url"

// fakeTransport records the last request an endpoint wrapper issued and
// returns a canned result. It keeps wrapper tests free of real HTTP.
type fakeTransport struct {
	method      string
	endpoint    string
	params      url.Values
	body        any
	requireAuth bool
	calls       int

	result any
	err    error
}

func (f *fakeTransport) Get(endpoint string, params url.Values, requireAuth bool) (any, error) {
	f.method = "GET"
	f.endpoint = endpoint
	f.params = params
	f.requireAuth = requireAuth
	f.calls++
	return f.result, f.err
}

func (f *fakeTransport) Post(endpoint string, body any, requireAuth bool) (any, error) {
	f.method = "POST"
	f.endpoint = endpoint
	f.body = body
	f.requireAuth = requireAuth
	f.calls++
	return f.result, f.err
}
