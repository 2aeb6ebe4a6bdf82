package reports

import (
	"context"
	"sort"
	"strings"

	"github.com/foomo/contentreports/content"
)

// ------------------------------------------------------------------------------------------------
// ~ By type
// ------------------------------------------------------------------------------------------------

// ByType lists the distinct node types used by the site's editorial
// content. ByTypeDetailed additionally counts the nodes per type.
type ByType struct {
	Base
	scope    string
	detailed bool
	counts   map[string]int
	total    int
}

func (r *ByType) Execute(ctx context.Context, session Session, offset, limit int) error {
	if err := r.begin(); err != nil {
		return err
	}
	r.counts = map[string]int{}
	r.fetchAll(ctx, session, r.scopeQuery(content.MixinEditorial, r.scope), func(node *content.Node) {
		r.counts[node.Type]++
		r.total++
	})
	return nil
}

func (r *ByType) Payload() map[string]interface{} {
	types := make([]string, 0, len(r.counts))
	for nodeType := range r.counts {
		types = append(types, nodeType)
	}
	sort.Strings(types)

	items := make([]map[string]interface{}, 0, len(types))
	for _, nodeType := range types {
		item := map[string]interface{}{
			"type":     shortType(nodeType),
			"techName": nodeType,
		}
		if r.detailed {
			item["itemCount"] = r.counts[nodeType]
			item["percentage"] = percentage(r.counts[nodeType], r.total)
		}
		items = append(items, item)
	}

	payload := r.basePayload()
	payload["items"] = items
	if r.detailed {
		payload["totalItems"] = r.total
	}
	return payload
}

// shortType the type name without its namespace prefix
func shortType(nodeType string) string {
	if i := strings.Index(nodeType, ":"); i >= 0 {
		return nodeType[i+1:]
	}
	return nodeType
}
