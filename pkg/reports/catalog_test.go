package reports

import (
	"testing"

	"github.com/foomo/contentreports/content"
	"github.com/foomo/contentreports/pkg/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var catalogIDs = []string{
	"1", "2", "3", "4", "5", "6", "7", "8",
	"10", "11", "12", "13", "14", "15", "16", "17", "18", "19",
	"20", "21", "22", "23", "24", "25", "26", "27",
}

func TestCatalogBuildsEveryReport(t *testing.T) {
	session := testSession(t)
	site, err := session.Site("demo")
	require.NoError(t, err)
	catalog := testCatalog(t)

	for _, id := range catalogIDs {
		aggregate, err := catalog.Build(site, id, nil, "", nil, "")
		require.NoError(t, err, id)
		require.NotNil(t, aggregate, id)

		require.NoError(t, aggregate.Execute(t.Context(), session, 0, 10), id)
		payload := aggregate.Payload()
		assert.Equal(t, "demo", payload["siteName"], id)
		assert.NotContains(t, payload, "partial", id)
	}
}

// the type breakdowns honor the path parameter
func TestCatalogScopedTypeReports(t *testing.T) {
	session := testSession(t)
	site, err := session.Site("demo")
	require.NoError(t, err)
	catalog := testCatalog(t)

	scoped := Parameters{{Name: ParamPath, Value: "/demo/b"}}

	aggregate, err := catalog.Build(site, "5", scoped, "", nil, "")
	require.NoError(t, err)
	byType, ok := aggregate.(*ByType)
	require.True(t, ok)
	assert.Equal(t, "/demo/b", byType.scope)

	// one page plus the two conditioned content nodes below it
	require.NoError(t, aggregate.Execute(t.Context(), session, 0, -1))
	assert.Equal(t, 3, aggregate.Payload()["totalItems"])

	aggregate, err = catalog.Build(site, "6", scoped, "", nil, "")
	require.NoError(t, err)
	byStatus, ok := aggregate.(*ByStatus)
	require.True(t, ok)
	assert.Equal(t, "/demo/b", byStatus.scope)
}

// missing type parameters select editorial content and the modification
// properties, only explicit values switch to pages and creation
func TestCatalogTypeDefaults(t *testing.T) {
	session := testSession(t)
	site, err := session.Site("demo")
	require.NoError(t, err)
	catalog := testCatalog(t)

	aggregate, err := catalog.Build(site, "1", nil, "", nil, "")
	require.NoError(t, err)
	byAuthor, ok := aggregate.(*ByAuthor)
	require.True(t, ok)
	assert.False(t, byAuthor.pages)
	assert.False(t, byAuthor.byCreation)

	aggregate, err = catalog.Build(site, "1", Parameters{
		{Name: ParamTypeSearch, Value: "pages"},
		{Name: ParamTypeAuthor, Value: "created"},
	}, "", nil, "")
	require.NoError(t, err)
	byAuthor, ok = aggregate.(*ByAuthor)
	require.True(t, ok)
	assert.True(t, byAuthor.pages)
	assert.True(t, byAuthor.byCreation)

	aggregate, err = catalog.Build(site, "20", nil, "", nil, "")
	require.NoError(t, err)
	queryReport, ok := aggregate.(*QueryReport)
	require.True(t, ok)
	assert.Equal(t, content.MixinEditorial, queryReport.Query.Type)

	aggregate, err = catalog.Build(site, "22", Parameters{{Name: ParamTypeSearch, Value: "pages"}}, "", nil, "")
	require.NoError(t, err)
	queryReport, ok = aggregate.(*QueryReport)
	require.True(t, ok)
	assert.Equal(t, content.TypePage, queryReport.Query.Type)
}

func TestCatalogSortRequest(t *testing.T) {
	session := testSession(t)
	site, err := session.Site("demo")
	require.NoError(t, err)
	catalog := testCatalog(t)

	aggregate, err := catalog.Build(site, "15", Parameters{
		{Name: ParamOrderColumn, Value: "1"},
		{Name: ParamOrderDirection, Value: "DESC"},
	}, "", nil, "")
	require.NoError(t, err)

	queryReport, ok := aggregate.(*QueryReport)
	require.True(t, ok)
	assert.Equal(t, repo.OrderByType, queryReport.Query.OrderBy)
	assert.True(t, queryReport.Query.Descending)
}

// an explicit sort request wins over the table order parameters
func TestCatalogSortPrecedence(t *testing.T) {
	session := testSession(t)
	site, err := session.Site("demo")
	require.NoError(t, err)

	sortCol := 3
	aggregate, err := testCatalog(t).Build(site, "15", Parameters{
		{Name: ParamOrderColumn, Value: "1"},
	}, "", &sortCol, "asc")
	require.NoError(t, err)

	queryReport, ok := aggregate.(*QueryReport)
	require.True(t, ok)
	assert.Equal(t, lockedSortFields[3], queryReport.Query.OrderBy)
	assert.False(t, queryReport.Query.Descending)
}

// out of range sort columns fall back to the first sortable field
func TestCatalogSortFallback(t *testing.T) {
	assert.Equal(t, byDateAndAuthorSortFields[0], sortField(byDateAndAuthorSortFields, 99))
	assert.Equal(t, byDateAndAuthorSortFields[0], sortField(byDateAndAuthorSortFields, -1))
	assert.Equal(t, byDateAndAuthorSortFields[2], sortField(byDateAndAuthorSortFields, 2))
}
