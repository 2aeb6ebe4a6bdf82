package reports

import (
	"testing"
	"time"

	"github.com/foomo/contentreports/content"
	"github.com/foomo/contentreports/pkg/repo"
	"github.com/foomo/contentreports/pkg/repo/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testSession(t *testing.T) Session {
	t.Helper()
	r, err := repo.NewStatic(zaptest.NewLogger(t), mock.Sites())
	require.NoError(t, err)
	return r
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	return NewCatalog(zaptest.NewLogger(t), CatalogWithNow(func() time.Time {
		return mock.Now
	}))
}

func runReport(t *testing.T, id string, params Parameters) map[string]interface{} {
	t.Helper()
	session := testSession(t)
	site, err := session.Site("demo")
	require.NoError(t, err)

	aggregate, err := testCatalog(t).Build(site, id, params, "", nil, "")
	require.NoError(t, err)
	require.NoError(t, aggregate.Execute(t.Context(), session, 0, -1))
	return aggregate.Payload()
}

func TestByAuthorShares(t *testing.T) {
	payload := runReport(t, "1", Parameters{{Name: ParamTypeSearch, Value: "pages"}})

	assert.Equal(t, 5, payload["totalItems"])

	items, ok := payload["items"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, items, 2)

	assert.Equal(t, "alice", items[0]["user"])
	assert.Equal(t, 3, items[0]["itemCount"])
	assert.InDelta(t, 60.0, items[0]["percentage"], 0.001)

	assert.Equal(t, "bob", items[1]["user"])
	assert.Equal(t, 2, items[1]["itemCount"])
	assert.InDelta(t, 40.0, items[1]["percentage"], 0.001)
}

func TestByAuthorEmptyScope(t *testing.T) {
	payload := runReport(t, "1", Parameters{
		{Name: ParamTypeSearch, Value: "pages"},
		{Name: ParamPath, Value: "/demo/users"},
	})
	assert.Equal(t, 0, payload["totalItems"])
	assert.Empty(t, payload["items"])
}

func TestPercentageZeroTotal(t *testing.T) {
	assert.Zero(t, percentage(3, 0))
	assert.Zero(t, percentage(0, 0))
	assert.InDelta(t, 50.0, percentage(1, 2), 0.001)
}

func TestExecuteOnce(t *testing.T) {
	session := testSession(t)
	site, err := session.Site("demo")
	require.NoError(t, err)

	aggregate, err := testCatalog(t).Build(site, "1", nil, "", nil, "")
	require.NoError(t, err)

	require.NoError(t, aggregate.Execute(t.Context(), session, 0, -1))
	err = aggregate.Execute(t.Context(), session, 0, -1)
	require.ErrorIs(t, err, ErrAlreadyExecuted)
}

func TestUnknownReport(t *testing.T) {
	site := &content.Site{Key: "demo", Root: &content.Node{Path: "/demo"}}

	for _, id := range []string{"9", "0", "99", "foo"} {
		_, err := testCatalog(t).Build(site, id, nil, "", nil, "")
		require.ErrorIs(t, err, ErrUnknownReport, id)
	}
}

// failed queries degrade to zero results and flag the payload as partial
func TestPartialResults(t *testing.T) {
	session := testSession(t)
	ghost := &content.Site{
		Key:         "ghost",
		Name:        "ghost",
		DisplayName: "Ghost Site",
		Root:        &content.Node{ID: "ghost-root", Path: "/ghost"},
	}

	aggregate, err := testCatalog(t).Build(ghost, "1", nil, "", nil, "")
	require.NoError(t, err)
	require.NoError(t, aggregate.Execute(t.Context(), session, 0, -1))

	payload := aggregate.Payload()
	assert.Equal(t, true, payload["partial"])
	assert.Equal(t, 0, payload["totalItems"])
}

func TestOverview(t *testing.T) {
	payload := runReport(t, "17", nil)

	assert.Equal(t, "demo", payload["siteName"])
	assert.Equal(t, "Demo Site", payload["siteDisplayableName"])
	assert.Equal(t, 5, payload["nbPages"])
	assert.Equal(t, 2, payload["nbUsers"])
	assert.Equal(t, 2, payload["nbTemplates"])
	assert.Equal(t, 2, payload["nbLanguages"])
	assert.Equal(t, []string{"de", "en"}, payload["languages"])
}

func TestByLanguage(t *testing.T) {
	payload := runReport(t, "7", nil)

	items, ok := payload["languageItems"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, items, 2)

	assert.Equal(t, "de", items[0]["language"])
	assert.Equal(t, true, items[0]["availableEdit"])
	assert.Equal(t, false, items[0]["availableLive"])
	assert.Equal(t, "German", items[0]["displayLanguage"])

	assert.Equal(t, "en", items[1]["language"])
	assert.Equal(t, true, items[1]["availableLive"])
}

func TestByTypeDetailed(t *testing.T) {
	payload := runReport(t, "5", nil)

	assert.Equal(t, 12, payload["totalItems"])

	items, ok := payload["items"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, items, 2)

	assert.Equal(t, "content", items[0]["type"])
	assert.Equal(t, content.TypeContent, items[0]["techName"])
	assert.Equal(t, 7, items[0]["itemCount"])

	assert.Equal(t, "page", items[1]["type"])
	assert.Equal(t, 5, items[1]["itemCount"])
	assert.InDelta(t, percentage(5, 12), items[1]["percentage"], 0.001)
}

func TestOrphanContent(t *testing.T) {
	payload := runReport(t, "14", nil)

	assert.Equal(t, 1, payload["recordsTotal"])
	rows, ok := payload["data"].([][]interface{})
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.Equal(t, "note", rows[0][0])
	assert.Equal(t, "ghost", rows[0][3])
}

func TestFromAnotherSite(t *testing.T) {
	payload := runReport(t, "13", nil)

	assert.Equal(t, 1, payload["recordsTotal"])
	items, ok := payload["data"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "press", items[0]["name"])
	assert.Equal(t, "other", items[0]["sourceSite"])
	assert.Equal(t, "/other/article", items[0]["sourcePath"])
}

// report pagination is deterministic, disjoint windows cover all rows
func TestReportPaginationDeterminism(t *testing.T) {
	session := testSession(t)
	site, err := session.Site("demo")
	require.NoError(t, err)
	catalog := testCatalog(t)

	var names []string
	for offset := 0; offset < 5; offset += 2 {
		aggregate, err := catalog.Build(site, "20", Parameters{{Name: ParamTypeSearch, Value: "pages"}}, "", nil, "")
		require.NoError(t, err)
		require.NoError(t, aggregate.Execute(t.Context(), session, offset, 2))

		payload := aggregate.Payload()
		assert.Equal(t, 5, payload["recordsTotal"])
		rows, ok := payload["data"].([][]interface{})
		require.True(t, ok)
		for _, row := range rows {
			names = append(names, row[0].(string))
		}
	}

	require.Len(t, names, 5)
	seen := map[string]bool{}
	for _, name := range names {
		assert.False(t, seen[name], "window overlap on %q", name)
		seen[name] = true
	}
}

func TestTranslatedPropertyReport(t *testing.T) {
	payload := runReport(t, "10", nil)

	// every page has an english title but no german one
	assert.Equal(t, 5, payload["recordsTotal"])
	assert.Equal(t, []string{"de", "en"}, payload["siteLanguages"])

	rows, ok := payload["data"].([][]interface{})
	require.True(t, ok)
	require.Len(t, rows, 5)
	// path followed by the values in sorted language order
	assert.Equal(t, "/demo/a", rows[0][0])
	assert.Equal(t, "", rows[0][1])
	assert.Equal(t, "Title of a", rows[0][2])
}
