package client

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/foomo/contentreports/pkg/handler"
	"github.com/foomo/contentreports/pkg/repo"
	"github.com/foomo/contentreports/pkg/repo/mock"
	"github.com/foomo/contentreports/pkg/reports"
	"github.com/foomo/contentreports/requests"
	"github.com/foomo/contentreports/responses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	l := zaptest.NewLogger(t)

	r, err := repo.NewStatic(l, mock.Sites())
	require.NoError(t, err)

	catalog := reports.NewCatalog(l, reports.CatalogWithNow(func() time.Time {
		return mock.Now
	}))

	server := httptest.NewServer(handler.NewHTTP(l, r, catalog))
	t.Cleanup(server.Close)

	return New(server.URL + "/contentreports")
}

func TestClientSites(t *testing.T) {
	c := newTestClient(t)

	sites, err := c.Sites(t.Context())
	require.NoError(t, err)
	require.Len(t, sites, 2)
	assert.Equal(t, "demo", sites[0].Key)
	assert.Equal(t, "Demo Site", sites[0].DisplayName)
}

func TestClientOverview(t *testing.T) {
	c := newTestClient(t)

	overview, err := c.Overview(t.Context(), &requests.Overview{Site: "demo"})
	require.NoError(t, err)
	assert.EqualValues(t, 5, overview["nbPages"])
}

func TestClientRawReport(t *testing.T) {
	c := newTestClient(t)

	payload, err := c.RawReport(t.Context(), &requests.RawReport{
		Site:       "demo",
		ReportID:   "1",
		Parameters: []requests.Parameter{{Name: "typeSearch", Value: "pages"}},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 5, payload["totalItems"])
}

func TestClientErrors(t *testing.T) {
	c := newTestClient(t)

	_, err := c.RawReport(t.Context(), &requests.RawReport{Site: "demo", ReportID: "9"})
	require.Error(t, err)
	var apiError responses.Error
	require.ErrorAs(t, err, &apiError)
	assert.Equal(t, 4, apiError.Code)

	_, err = c.RawReport(t.Context(), &requests.RawReport{Site: "nope", ReportID: "1"})
	require.ErrorAs(t, err, &apiError)
	assert.Equal(t, 5, apiError.Code)
}

func TestClientUpdate(t *testing.T) {
	c := newTestClient(t)

	update, err := c.Update(t.Context())
	require.NoError(t, err)
	assert.False(t, update.Success)
}
