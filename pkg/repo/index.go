package repo

import (
	"github.com/foomo/contentreports/content"
	"github.com/pkg/errors"
)

// SiteIndex indexed content tree of a single site
type SiteIndex struct {
	Site          *content.Site
	Directory     map[string]*content.Node   // by id
	PathDirectory map[string]*content.Node   // by path
	TypeDirectory map[string][]*content.Node // by primary and mixin type, sorted by path
	Nodes         []*content.Node            // all nodes, sorted by path
}

// buildSiteIndex wires parents and indexes the site tree. Duplicate ids or
// paths reject the whole site.
func buildSiteIndex(site *content.Site) (*SiteIndex, error) {
	if site.Root == nil {
		return nil, errors.Errorf("site %q has no root node", site.Key)
	}
	site.Root.WireParents()

	index := &SiteIndex{
		Site:          site,
		Directory:     map[string]*content.Node{},
		PathDirectory: map[string]*content.Node{},
		TypeDirectory: map[string][]*content.Node{},
	}

	var indexErr error
	site.Root.Walk(func(node *content.Node) {
		if indexErr != nil {
			return
		}
		if existing, ok := index.Directory[node.ID]; ok {
			indexErr = errors.Errorf("duplicate node id %q at %q and %q", node.ID, existing.Path, node.Path)
			return
		}
		index.Directory[node.ID] = node
		if existing, ok := index.PathDirectory[node.Path]; ok {
			indexErr = errors.Errorf("duplicate node path %q (node ids %q and %q)", node.Path, existing.ID, node.ID)
			return
		}
		index.PathDirectory[node.Path] = node
		index.Nodes = append(index.Nodes, node)
		index.TypeDirectory[node.Type] = append(index.TypeDirectory[node.Type], node)
		for _, mixin := range node.Mixins {
			index.TypeDirectory[mixin] = append(index.TypeDirectory[mixin], node)
		}
	})
	if indexErr != nil {
		return nil, indexErr
	}

	sortNodes(index.Nodes, OrderByPath, false)
	for _, nodes := range index.TypeDirectory {
		sortNodes(nodes, OrderByPath, false)
	}

	return index, nil
}

// candidates the pre filtered node set for a query
func (i *SiteIndex) candidates(q Query) []*content.Node {
	if q.Type == "" {
		return i.Nodes
	}
	return i.TypeDirectory[q.Type]
}
