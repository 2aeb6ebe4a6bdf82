package reports

import (
	"context"
	"sort"

	"github.com/foomo/contentreports/content"
	"github.com/foomo/contentreports/pkg/repo"
)

// ------------------------------------------------------------------------------------------------
// ~ Content from another site
// ------------------------------------------------------------------------------------------------

// FromAnotherSite lists reference nodes pointing at content that lives in
// a different site.
type FromAnotherSite struct {
	Base
	items []map[string]interface{}
	total int
}

func (r *FromAnotherSite) Execute(ctx context.Context, session Session, offset, limit int) error {
	if err := r.begin(); err != nil {
		return err
	}
	matched := make([]*content.Node, 0)
	targets := map[string]*content.Node{}
	targetSites := map[string]string{}

	r.fetchAll(ctx, session, r.scopeQuery(content.TypeContentReference, r.site.Root.Path), func(node *content.Node) {
		reference := node.PropertyString(content.PropReference)
		if reference == "" {
			return
		}
		siteKey, target, err := session.NodeByID(reference)
		if err != nil || siteKey == r.site.Key {
			return
		}
		matched = append(matched, node)
		targets[node.ID] = target
		targetSites[node.ID] = siteKey
	})
	r.total = len(matched)

	for _, node := range paginate(matched, offset, limit) {
		target := targets[node.ID]
		r.items = append(r.items, map[string]interface{}{
			"name":           node.Name,
			"displayTitle":   r.displayName(node),
			"path":           node.Path,
			"type":           shortType(node.Type),
			"pagePath":       parentPagePath(node),
			"sourceSite":     targetSites[node.ID],
			"sourcePath":     target.Path,
			"sourceType":     target.Type,
			"sourceModified": formatNodeDate(target, content.PropLastModified),
		})
	}
	return nil
}

func (r *FromAnotherSite) Payload() map[string]interface{} {
	payload := r.basePayload()
	payload["recordsTotal"] = r.total
	payload["recordsFiltered"] = r.total
	payload["data"] = emptyItems(r.items)
	return payload
}

// ------------------------------------------------------------------------------------------------
// ~ Orphaned content
// ------------------------------------------------------------------------------------------------

// OrphanContent lists editorial content whose creator no longer exists as
// a user.
type OrphanContent struct {
	Base
	rows  [][]interface{}
	total int
}

func (r *OrphanContent) Execute(ctx context.Context, session Session, offset, limit int) error {
	if err := r.begin(); err != nil {
		return err
	}
	users := map[string]bool{"system": true}
	for _, site := range session.Sites() {
		r.fetchAll(ctx, session, repo.Query{
			Site: site.Key,
			Type: content.TypeUser,
		}, func(node *content.Node) {
			users[node.Name] = true
		})
	}

	matched := make([]*content.Node, 0)
	r.fetchAll(ctx, session, r.scopeQuery(content.MixinEditorial, r.site.Root.Path), func(node *content.Node) {
		createdBy := node.PropertyString(content.PropCreatedBy)
		if createdBy != "" && !users[createdBy] {
			matched = append(matched, node)
		}
	})
	r.total = len(matched)

	for _, node := range paginate(matched, offset, limit) {
		r.rows = append(r.rows, []interface{}{
			node.Name,
			node.Path,
			node.Type,
			node.PropertyString(content.PropCreatedBy),
		})
	}
	return nil
}

func (r *OrphanContent) Payload() map[string]interface{} {
	payload := r.basePayload()
	payload["recordsTotal"] = r.total
	payload["recordsFiltered"] = r.total
	payload["data"] = emptyRows(r.rows)
	return payload
}

// ------------------------------------------------------------------------------------------------
// ~ Custom cache settings
// ------------------------------------------------------------------------------------------------

var customCacheSortFields = []string{
	repo.OrderByName,
	repo.OrderByPath,
	content.PropCacheExpiration,
}

// CustomCacheContent lists nodes overriding the default cache behavior.
type CustomCacheContent struct {
	Base
	sortCol    int
	descending bool
	rows       [][]interface{}
	total      int
}

func (r *CustomCacheContent) Execute(ctx context.Context, session Session, offset, limit int) error {
	if err := r.begin(); err != nil {
		return err
	}
	q := r.scopeQuery(content.MixinCacheSettings, r.site.Root.Path)
	q.OrderBy = sortField(customCacheSortFields, r.sortCol)
	q.Descending = r.descending

	matched := make([]*content.Node, 0)
	r.fetchAll(ctx, session, q, func(node *content.Node) {
		if node.HasProperty(content.PropCacheExpiration) || node.PropertyBool(content.PropCachePerUser) {
			matched = append(matched, node)
		}
	})
	r.total = len(matched)

	for _, node := range paginate(matched, offset, limit) {
		r.rows = append(r.rows, []interface{}{
			r.displayName(node),
			node.Path,
			node.PropertyString(content.PropCacheExpiration),
			node.PropertyBool(content.PropCachePerUser),
		})
	}
	return nil
}

func (r *CustomCacheContent) Payload() map[string]interface{} {
	payload := r.basePayload()
	payload["recordsTotal"] = r.total
	payload["recordsFiltered"] = r.total
	payload["data"] = emptyRows(r.rows)
	return payload
}

// ------------------------------------------------------------------------------------------------
// ~ Stopped ACL inheritance
// ------------------------------------------------------------------------------------------------

// ACLInheritanceStopped lists nodes whose access control list breaks the
// inheritance chain.
type ACLInheritanceStopped struct {
	Base
	rows  [][]interface{}
	total int
}

func (r *ACLInheritanceStopped) Execute(ctx context.Context, session Session, offset, limit int) error {
	if err := r.begin(); err != nil {
		return err
	}
	matched := make([]*content.Node, 0)
	r.fetchAll(ctx, session, r.scopeQuery(content.TypeACL, r.site.Root.Path), func(node *content.Node) {
		if node.HasProperty(content.PropACLInherit) && !node.PropertyBool(content.PropACLInherit) && node.Parent() != nil {
			matched = append(matched, node)
		}
	})
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Parent().Path < matched[j].Parent().Path
	})
	r.total = len(matched)

	for _, node := range paginate(matched, offset, limit) {
		parentNode := node.Parent()
		r.rows = append(r.rows, []interface{}{
			parentNode.Name,
			parentNode.Path,
			parentNode.Type,
		})
	}
	return nil
}

func (r *ACLInheritanceStopped) Payload() map[string]interface{} {
	payload := r.basePayload()
	payload["recordsTotal"] = r.total
	payload["recordsFiltered"] = r.total
	payload["data"] = emptyRows(r.rows)
	return payload
}

// ------------------------------------------------------------------------------------------------
// ~ Display links
// ------------------------------------------------------------------------------------------------

// DisplayLinks lists reference properties below an origin path that point
// into a destination sub tree. Only references reachable from a page are
// listed, the rest cannot be rendered anyway.
type DisplayLinks struct {
	Base
	originPath      string
	destinationPath string
	rows            [][]interface{}
}

func (r *DisplayLinks) Execute(ctx context.Context, session Session, offset, limit int) error {
	if err := r.begin(); err != nil {
		return err
	}
	origin, err := session.NodeByPath(r.site.Key, r.originPath)
	if err != nil {
		r.absorbQueryError(err)
		return nil
	}

	origin.Walk(func(node *content.Node) {
		for _, reference := range node.PropertyStrings(content.PropReference) {
			_, target, err := session.NodeByID(reference)
			if err != nil {
				continue
			}
			r.addItem(node, target)
		}
	})
	return nil
}

func (r *DisplayLinks) addItem(node, target *content.Node) {
	if !inDestination(target.Path, r.destinationPath) {
		return
	}
	page := node.ParentPage()
	if page == nil {
		return
	}
	r.rows = append(r.rows, []interface{}{
		target.Type,
		target.Path,
		node.Path,
		formatNodeDate(target, content.PropLastModified),
		page.Path,
	})
}

func (r *DisplayLinks) Payload() map[string]interface{} {
	payload := r.basePayload()
	payload["recordsTotal"] = len(r.rows)
	payload["recordsFiltered"] = len(r.rows)
	payload["data"] = emptyRows(r.rows)
	return payload
}

func inDestination(path, destination string) bool {
	return len(path) > len(destination) && path[:len(destination)] == destination && path[len(destination)] == '/'
}
