package reports

import (
	"context"
	"sort"

	"github.com/foomo/contentreports/content"
	"github.com/foomo/contentreports/pkg/repo"
)

// ------------------------------------------------------------------------------------------------
// ~ By author
// ------------------------------------------------------------------------------------------------

// ByAuthor groups pages or editorial content by the user who created or
// last modified them.
type ByAuthor struct {
	Base
	scope         string
	pages         bool
	byCreation    bool
	useSystemUser bool
	counts        map[string]int
	total         int
}

func (r *ByAuthor) Execute(ctx context.Context, session Session, offset, limit int) error {
	if err := r.begin(); err != nil {
		return err
	}
	r.counts = map[string]int{}

	property := content.PropLastModifiedBy
	if r.byCreation {
		property = content.PropCreatedBy
	}
	nodeType := content.MixinEditorial
	if r.pages {
		nodeType = content.TypePage
	}

	r.fetchAll(ctx, session, r.scopeQuery(nodeType, r.scope), func(node *content.Node) {
		user := node.PropertyString(property)
		if user == "" {
			return
		}
		if !r.useSystemUser && user == "system" {
			return
		}
		r.counts[user]++
		r.total++
	})
	return nil
}

func (r *ByAuthor) Payload() map[string]interface{} {
	users := make([]string, 0, len(r.counts))
	for user := range r.counts {
		users = append(users, user)
	}
	sort.Strings(users)

	items := make([]map[string]interface{}, 0, len(users))
	for _, user := range users {
		items = append(items, map[string]interface{}{
			"user":       user,
			"itemCount":  r.counts[user],
			"percentage": percentage(r.counts[user], r.total),
		})
	}

	payload := r.basePayload()
	payload["items"] = items
	payload["totalItems"] = r.total
	return payload
}

// ------------------------------------------------------------------------------------------------
// ~ By date and author
// ------------------------------------------------------------------------------------------------

// byDateAndAuthorSortFields sortable columns in row order
var byDateAndAuthorSortFields = []string{
	repo.OrderByName,
	repo.OrderByPath,
	repo.OrderByType,
	content.PropCreated,
	content.PropLastModified,
	content.PropLastPublished,
	content.PropLockTypes,
}

// NewByDateAndAuthor a table of pages or editorial content, optionally
// narrowed down by a date window and an author.
func NewByDateAndAuthor(base Base, params Parameters, sortCol int, descending bool) *QueryReport {
	q := repo.Query{
		Site:       base.site.Key,
		Type:       content.MixinEditorial,
		Scope:      params.Path(ParamPath, base.site.Root.Path),
		OrderBy:    sortField(byDateAndAuthorSortFields, sortCol),
		Descending: descending,
	}
	if params.IsPages(ParamTypeSearch) {
		q.Type = content.TypePage
	}

	dateProperty := content.PropLastModified
	if params.IsCreated(ParamTypeDateSearch) {
		dateProperty = content.PropCreated
	}
	if params.Bool(ParamSearchByDate) {
		if begin := params.Time(ParamDateBegin); !begin.IsZero() {
			q.Conditions = append(q.Conditions, repo.Condition{
				Property: dateProperty,
				Op:       repo.OpAfter,
				Time:     begin.AddDate(0, 0, -1),
			})
		}
		if end := params.Time(ParamDateEnd); !end.IsZero() {
			q.Conditions = append(q.Conditions, repo.Condition{
				Property: dateProperty,
				Op:       repo.OpBefore,
				Time:     end.AddDate(0, 0, 1),
			})
		}
	}

	if params.Bool(ParamSearchAuthor) {
		authorProperty := content.PropLastModifiedBy
		typeAuthor := params.Get(ParamTypeAuthor)
		if typeAuthor == "" {
			typeAuthor = params.Get(ParamTypeAuthorText)
		}
		if isCreated(typeAuthor) {
			authorProperty = content.PropCreatedBy
		}
		if username := params.Get(ParamSearchUsername); username != "" {
			q.Conditions = append(q.Conditions, repo.Condition{
				Property: authorProperty,
				Op:       repo.OpEq,
				Value:    username,
			})
		}
	}

	return &QueryReport{
		Base:  base,
		Query: q,
		Row: func(node *content.Node) []interface{} {
			return []interface{}{
				node.Name,
				node.Path,
				node.Type,
				formatNodeDate(node, content.PropCreated),
				formatNodeDate(node, content.PropLastModified),
				formatNodeDate(node, content.PropLastPublished),
				node.PropertyString(content.PropLockTypes),
			}
		},
	}
}

func formatNodeDate(node *content.Node, property string) string {
	t := node.PropertyTime(property)
	if t.IsZero() {
		return ""
	}
	return t.Format(dateDisplayFormat)
}

// sortField column index into fields, out of range falls back to the first
func sortField(fields []string, sortCol int) string {
	if sortCol < 0 || sortCol >= len(fields) {
		return fields[0]
	}
	return fields[sortCol]
}
