package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/foomo/contentreports/pkg/repo"
	"github.com/foomo/contentreports/pkg/repo/mock"
	"github.com/foomo/contentreports/pkg/reports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	l := zaptest.NewLogger(t)

	r, err := repo.NewStatic(l, mock.Sites())
	require.NoError(t, err)

	catalog := reports.NewCatalog(l, reports.CatalogWithNow(func() time.Time {
		return mock.Now
	}))

	server := httptest.NewServer(NewHTTP(l, r, catalog))
	t.Cleanup(server.Close)
	return server
}

func post(t *testing.T, server *httptest.Server, route, body string) map[string]interface{} {
	t.Helper()
	resp, err := http.Post(server.URL+"/contentreports/"+route, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var envelope map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Contains(t, envelope, "reply")
	return envelope
}

func errorCode(t *testing.T, envelope map[string]interface{}) float64 {
	t.Helper()
	reply, ok := envelope["reply"].(map[string]interface{})
	require.True(t, ok)
	code, ok := reply["code"].(float64)
	require.True(t, ok)
	return code
}

func TestRawReport(t *testing.T) {
	server := newTestServer(t)

	envelope := post(t, server, "rawReport", `{"site":"demo","reportId":"1","parameters":[{"name":"typeSearch","value":"pages"}]}`)
	reply, ok := envelope["reply"].(map[string]interface{})
	require.True(t, ok)

	assert.Equal(t, "demo", reply["siteName"])
	assert.EqualValues(t, 5, reply["totalItems"])

	items, ok := reply["items"].([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 2)
}

func TestOverviewRoute(t *testing.T) {
	server := newTestServer(t)

	envelope := post(t, server, "overview", `{"site":"demo"}`)
	reply, ok := envelope["reply"].(map[string]interface{})
	require.True(t, ok)

	assert.EqualValues(t, 5, reply["nbPages"])
	assert.EqualValues(t, 2, reply["nbLanguages"])
}

func TestSitesRoute(t *testing.T) {
	server := newTestServer(t)

	envelope := post(t, server, "sites", `{}`)
	sites, ok := envelope["reply"].([]interface{})
	require.True(t, ok)
	require.Len(t, sites, 2)

	first, ok := sites[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "demo", first["key"])
	assert.Equal(t, "Demo Site", first["displayName"])
}

// a static repository has no update routines, the request is rejected but
// still answered
func TestUpdateRoute(t *testing.T) {
	server := newTestServer(t)

	envelope := post(t, server, "update", `{}`)
	reply, ok := envelope["reply"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, reply["success"])
}

func TestErrorReplies(t *testing.T) {
	server := newTestServer(t)

	tests := map[string]struct {
		route string
		body  string
		code  float64
	}{
		"unknown route":  {route: "nope", body: `{}`, code: 1},
		"broken json":    {route: "rawReport", body: `{"site":`, code: 2},
		"unknown report": {route: "rawReport", body: `{"site":"demo","reportId":"9"}`, code: 4},
		"unknown site":   {route: "rawReport", body: `{"site":"nope","reportId":"1"}`, code: 5},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			envelope := post(t, server, test.route, test.body)
			assert.Equal(t, test.code, errorCode(t, envelope))
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/contentreports/sites")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

// the pagination window of the request reaches the report
func TestRawReportWindow(t *testing.T) {
	server := newTestServer(t)

	envelope := post(t, server, "rawReport", `{"site":"demo","reportId":"20","parameters":[{"name":"typeSearch","value":"pages"}],"offset":0,"limit":2}`)
	reply, ok := envelope["reply"].(map[string]interface{})
	require.True(t, ok)

	assert.EqualValues(t, 5, reply["recordsTotal"])
	rows, ok := reply["data"].([]interface{})
	require.True(t, ok)
	assert.Len(t, rows, 2)
}
