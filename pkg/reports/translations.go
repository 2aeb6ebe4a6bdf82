package reports

import (
	"context"
	"sort"

	"github.com/foomo/contentreports/content"
	"github.com/foomo/contentreports/pkg/repo"
)

// ------------------------------------------------------------------------------------------------
// ~ Missing translated properties
// ------------------------------------------------------------------------------------------------

// TranslatedProperty lists pages missing a translated property, such as a
// title or description, in at least one of the site's languages. Rows carry
// the page path followed by the property value per language in sorted
// language order.
type TranslatedProperty struct {
	Base
	property string
	language string
	rows     [][]interface{}
	total    int
}

func (r *TranslatedProperty) Execute(ctx context.Context, session Session, offset, limit int) error {
	if err := r.begin(); err != nil {
		return err
	}
	languages := r.languages()

	matched := make([]*content.Node, 0)
	r.fetchAll(ctx, session, r.scopeQuery(content.TypePage, r.site.Root.Path), func(node *content.Node) {
		for _, lang := range languages {
			if r.translatedValue(node, lang) == "" {
				matched = append(matched, node)
				return
			}
		}
	})
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Path < matched[j].Path
	})
	r.total = len(matched)

	siteLanguages := r.site.SortedLanguages()
	for _, node := range paginate(matched, offset, limit) {
		row := []interface{}{node.Path}
		for _, lang := range siteLanguages {
			row = append(row, r.translatedValue(node, lang))
		}
		r.rows = append(r.rows, row)
	}
	return nil
}

func (r *TranslatedProperty) Payload() map[string]interface{} {
	payload := r.basePayload()
	payload["recordsTotal"] = r.total
	payload["recordsFiltered"] = r.total
	payload["data"] = emptyRows(r.rows)
	payload["siteLanguages"] = r.site.SortedLanguages()
	return payload
}

// languages the languages to check, all site languages unless one was
// requested
func (r *TranslatedProperty) languages() []string {
	if r.language != "" {
		return []string{r.language}
	}
	return r.site.SortedLanguages()
}

func (r *TranslatedProperty) translatedValue(node *content.Node, lang string) string {
	if translation := node.Translation(lang); translation != nil {
		return translation.PropertyString(r.property)
	}
	return ""
}

// ------------------------------------------------------------------------------------------------
// ~ Pages without keywords
// ------------------------------------------------------------------------------------------------

var withoutKeywordSortFields = []string{
	content.PropTitle,
	repo.OrderByName,
}

// NewPagesWithoutKeyword a table of pages with no keywords set.
func NewPagesWithoutKeyword(base Base, sortCol int, descending bool) *QueryReport {
	q := repo.Query{
		Site:  base.site.Key,
		Type:  content.TypePage,
		Scope: base.site.Root.Path,
		Conditions: []repo.Condition{
			{Property: content.PropKeywords, Op: repo.OpIsNull},
		},
		OrderBy:    sortField(withoutKeywordSortFields, sortCol),
		Descending: descending,
	}
	return &QueryReport{
		Base:  base,
		Query: q,
		Row: func(node *content.Node) []interface{} {
			return []interface{}{
				base.displayName(node),
				node.Path,
			}
		},
	}
}
