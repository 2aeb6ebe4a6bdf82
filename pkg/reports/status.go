package reports

import (
	"context"
	"sort"
	"strings"

	"github.com/foomo/contentreports/content"
	"github.com/foomo/contentreports/pkg/repo"
)

// ------------------------------------------------------------------------------------------------
// ~ By status
// ------------------------------------------------------------------------------------------------

// publication status buckets
const (
	statusWorkInProgress       = "WIP"
	statusModifiedNotPublished = "MNP"
	statusNeverPublished       = "NVP"
	statusUnpublished          = "UNP"
)

var statusLabels = map[string]string{
	statusWorkInProgress:       "work in progress",
	statusModifiedNotPublished: "modified not published",
	statusNeverPublished:       "never published",
	statusUnpublished:          "unpublished",
}

// ByStatus buckets editorial content by its publication status.
type ByStatus struct {
	Base
	scope   string
	buckets map[string][]*content.Node
	total   int
}

func (r *ByStatus) Execute(ctx context.Context, session Session, offset, limit int) error {
	if err := r.begin(); err != nil {
		return err
	}
	r.buckets = map[string][]*content.Node{}
	r.fetchAll(ctx, session, r.scopeQuery(content.MixinEditorial, r.scope), func(node *content.Node) {
		if status, ok := publicationStatus(node); ok {
			r.buckets[status] = append(r.buckets[status], node)
			r.total++
		}
	})
	return nil
}

func (r *ByStatus) Payload() map[string]interface{} {
	statusItems := make([]map[string]interface{}, 0, len(r.buckets))
	for _, status := range []string{statusWorkInProgress, statusModifiedNotPublished, statusNeverPublished, statusUnpublished} {
		nodes, ok := r.buckets[status]
		if !ok {
			continue
		}
		items := make([]map[string]interface{}, 0, len(nodes))
		for _, node := range nodes {
			items = append(items, map[string]interface{}{
				"path":           node.Path,
				"name":           node.Name,
				"displayTitle":   r.displayName(node),
				"type":           shortType(node.Type),
				"created":        formatDay(node.PropertyTime(content.PropCreated)),
				"lastModified":   formatDay(node.PropertyTime(content.PropLastModified)),
				"lastModifiedBy": node.PropertyString(content.PropLastModifiedBy),
				"published":      node.PropertyBool(content.PropPublished),
			})
		}
		statusItems = append(statusItems, map[string]interface{}{
			"status":     status,
			"name":       statusLabels[status],
			"itemCount":  len(nodes),
			"percentage": percentage(len(nodes), r.total),
			"items":      items,
		})
	}

	payload := r.basePayload()
	payload["statusItems"] = statusItems
	payload["totalItems"] = r.total
	return payload
}

// publicationStatus buckets a node, nodes in none of the buckets are left
// out of the report
func publicationStatus(node *content.Node) (string, bool) {
	var (
		lastPublished = node.PropertyTime(content.PropLastPublished)
		lastModified  = node.PropertyTime(content.PropLastModified)
	)
	switch {
	case node.HasProperty(content.PropWIPStatus):
		return statusWorkInProgress, true
	case !lastPublished.IsZero() && !lastModified.IsZero() && lastPublished.Before(lastModified):
		return statusModifiedNotPublished, true
	case !node.HasProperty(content.PropPublished) && !lastPublished.IsZero():
		return statusNeverPublished, true
	case !lastPublished.IsZero() && node.HasProperty(content.PropPublished) && !node.PropertyBool(content.PropPublished):
		return statusUnpublished, true
	}
	return "", false
}

// ------------------------------------------------------------------------------------------------
// ~ Work in progress
// ------------------------------------------------------------------------------------------------

var wipSortFields = []string{
	repo.OrderByName,
	repo.OrderByType,
	content.PropWIPStatus,
	repo.OrderByPath,
}

// NewWorkInProgress a table of nodes flagged as work in progress.
func NewWorkInProgress(base Base, params Parameters, sortCol int, descending bool) *QueryReport {
	q := repo.Query{
		Site:  base.site.Key,
		Type:  typeSearchType(params, ParamTypeSearch),
		Scope: params.Path(ParamPath, base.site.Root.Path),
		Conditions: []repo.Condition{
			{Property: content.PropWIPStatus, Op: repo.OpNotNull},
			{Property: content.PropWIPStatus, Op: repo.OpNotEq, Value: content.WIPStatusDisabled},
		},
		OrderBy:    sortField(wipSortFields, sortCol),
		Descending: descending,
	}
	return &QueryReport{
		Base:  base,
		Query: q,
		Row: func(node *content.Node) []interface{} {
			wip := []string{node.PropertyString(content.PropWIPStatus)}
			if node.PropertyString(content.PropWIPStatus) == content.WIPStatusLanguages {
				wip = node.PropertyStrings(content.PropWIPLanguages)
			}
			return []interface{}{
				base.displayName(node),
				node.Type,
				strings.Join(wip, ", "),
				node.Path,
				parentPagePath(node),
			}
		},
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Locked content
// ------------------------------------------------------------------------------------------------

var lockedSortFields = []string{
	repo.OrderByName,
	repo.OrderByType,
	content.PropCreatedBy,
	content.PropLockOwner,
	repo.OrderByName,
}

// NewLockedContent a table of locked nodes with their lock owner.
func NewLockedContent(base Base, sortCol int, descending bool) *QueryReport {
	q := repo.Query{
		Site:  base.site.Key,
		Scope: base.site.Root.Path,
		Conditions: []repo.Condition{
			{Property: content.PropLockTypes, Op: repo.OpNotNull},
		},
		OrderBy:    sortField(lockedSortFields, sortCol),
		Descending: descending,
	}
	return &QueryReport{
		Base:  base,
		Query: q,
		Row: func(node *content.Node) []interface{} {
			return []interface{}{
				node.Name,
				node.Type,
				node.PropertyString(content.PropCreatedBy),
				node.PropertyString(content.PropLockOwner),
				parentPagePath(node),
			}
		},
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Marked for deletion
// ------------------------------------------------------------------------------------------------

// MarkedForDeletion lists nodes whose deletion has been scheduled, with the
// number of descendants the deletion will take along.
type MarkedForDeletion struct {
	Base
	scope      string
	pages      bool
	sortCol    int
	descending bool
	rows       [][]interface{}
	total      int
}

var markedForDeletionSortFields = []string{
	repo.OrderByName,
	repo.OrderByType,
	repo.OrderByName,
}

func (r *MarkedForDeletion) Execute(ctx context.Context, session Session, offset, limit int) error {
	if err := r.begin(); err != nil {
		return err
	}
	q := r.scopeQuery(content.MixinMarkedForDeletionRoot, r.scope)
	q.OrderBy = sortField(markedForDeletionSortFields, r.sortCol)
	q.Descending = r.descending

	matched := make([]*content.Node, 0)
	r.fetchAll(ctx, session, q, func(node *content.Node) {
		if r.pages == (node.Type == content.TypePage) {
			matched = append(matched, node)
		}
	})
	r.total = len(matched)

	for _, node := range paginate(matched, offset, limit) {
		presence := "nodeNotPresentOnPage"
		if node.ParentPage() != nil {
			presence = "nodePresentOnPage"
		}
		r.rows = append(r.rows, []interface{}{
			r.displayName(node),
			node.Type,
			node.Path,
			parentPagePath(node),
			markedDescendants(node),
			deletionStatus(node),
			presence,
		})
	}
	return nil
}

func (r *MarkedForDeletion) Payload() map[string]interface{} {
	payload := r.basePayload()
	payload["recordsTotal"] = r.total
	payload["recordsFiltered"] = r.total
	payload["data"] = emptyRows(r.rows)
	return payload
}

// markedDescendants descendants that are marked for deletion along with
// the node
func markedDescendants(node *content.Node) int {
	count := 0
	node.Walk(func(descendant *content.Node) {
		if descendant != node && descendant.IsType(content.MixinMarkedForDeletion) {
			count++
		}
	})
	return count
}

func deletionStatus(node *content.Node) string {
	if status, ok := publicationStatus(node); ok {
		return statusLabels[status]
	}
	return "published"
}

// ------------------------------------------------------------------------------------------------
// ~ Waiting for publication
// ------------------------------------------------------------------------------------------------

// WaitingPublication lists nodes with a running publication workflow,
// either on the node itself or on one of its translations.
type WaitingPublication struct {
	Base
	scope string
	rows  [][]interface{}
	total int
}

func (w *WaitingPublication) Execute(ctx context.Context, session Session, offset, limit int) error {
	if err := w.begin(); err != nil {
		return err
	}
	matched := make([]*content.Node, 0)
	collect := func(node *content.Node) {
		if len(pendingWorkflowLanguages(node)) > 0 {
			matched = append(matched, node)
		}
	}
	w.fetchAll(ctx, session, w.scopeQuery(content.TypePage, w.scope), collect)
	w.fetchAll(ctx, session, w.scopeQuery(content.MixinEditorial, w.scope), func(node *content.Node) {
		if node.Type != content.TypePage {
			collect(node)
		}
	})
	w.total = len(matched)

	for _, node := range paginate(matched, offset, limit) {
		w.rows = append(w.rows, []interface{}{
			node.Name,
			node.Type,
			node.Path,
			strings.Join(pendingWorkflowLanguages(node), ", "),
		})
	}
	return nil
}

func (w *WaitingPublication) Payload() map[string]interface{} {
	payload := w.basePayload()
	payload["recordsTotal"] = w.total
	payload["recordsFiltered"] = w.total
	payload["data"] = emptyRows(w.rows)
	return payload
}

// pendingWorkflowLanguages languages with a running workflow process, "*"
// stands for the node itself
func pendingWorkflowLanguages(node *content.Node) []string {
	languages := make([]string, 0)
	if node.HasProperty(content.PropProcessID) {
		languages = append(languages, "*")
	}
	translations := node.Translations()
	keys := make([]string, 0, len(translations))
	for lang := range translations {
		keys = append(keys, lang)
	}
	sort.Strings(keys)
	for _, lang := range keys {
		if translations[lang].HasProperty(content.PropProcessID) {
			languages = append(languages, lang)
		}
	}
	return languages
}

// ------------------------------------------------------------------------------------------------
// ~ Helpers
// ------------------------------------------------------------------------------------------------

// typeSearchType resolves a pages/contents type search parameter into a
// node type. Only an explicit pages value selects pages, everything else
// falls back to editorial content.
func typeSearchType(params Parameters, name string) string {
	if params.IsPages(name) {
		return content.TypePage
	}
	return content.MixinEditorial
}

// parentPagePath the path of the closest ancestor page, falling back to
// the parent path
func parentPagePath(node *content.Node) string {
	if page := node.ParentPage(); page != nil {
		return page.Path
	}
	return parentPath(node)
}

// paginate a window over nodes, negative limits keep everything
func paginate(nodes []*content.Node, offset, limit int) []*content.Node {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(nodes) {
		return nil
	}
	nodes = nodes[offset:]
	if limit >= 0 && limit < len(nodes) {
		nodes = nodes[:limit]
	}
	return nodes
}
