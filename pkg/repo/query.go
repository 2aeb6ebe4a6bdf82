package repo

import (
	"sort"
	"strings"
	"time"

	"github.com/foomo/contentreports/content"
)

// Op comparison operator of a query condition
type Op int

const (
	OpEq Op = iota
	OpNotEq
	OpIsNull
	OpNotNull
	OpBefore
	OpAfter
)

// sortable non property fields
const (
	OrderByName = "name"
	OrderByPath = "path"
	OrderByType = "type"
)

type (
	// Query a declarative node query. Queries are built from typed fields,
	// never from user supplied strings.
	Query struct {
		// Site key of the site to query
		Site string
		// Type primary or mixin node type, empty matches all types
		Type string
		// Scope restricts results to the sub tree rooted at this path
		Scope string
		// Conditions all must match
		Conditions []Condition
		// Visibility optional conditional visibility sub tree filter
		Visibility *Visibility
		// OrderBy name, path, type or a property name, empty keeps path order
		OrderBy string
		// Descending reverses the order
		Descending bool
	}

	// Condition a single property comparison
	Condition struct {
		Property string
		Op       Op
		Value    string
		Time     time.Time // used by OpBefore / OpAfter
	}

	// Visibility matches nodes carrying a conditional visibility child with
	// condition nodes of interest. A node without any conditional visibility
	// child never matches.
	Visibility struct {
		// RequireConditionTypes condition child types that must all be present
		RequireConditionTypes []string
		// EndBefore matches a date range condition ending before this time
		EndBefore time.Time
		// StartAfter matches a date range condition starting after this time
		StartAfter time.Time
		// InvalidAt matches a date range condition not active at this time
		InvalidAt time.Time
	}
)

// ------------------------------------------------------------------------------------------------
// ~ Matching
// ------------------------------------------------------------------------------------------------

func (q Query) matches(node *content.Node) bool {
	if q.Scope != "" && !inScope(node.Path, q.Scope) {
		return false
	}
	for _, condition := range q.Conditions {
		if !condition.matches(node) {
			return false
		}
	}
	if q.Visibility != nil && !q.Visibility.matches(node) {
		return false
	}
	return true
}

func inScope(path, scope string) bool {
	return path == scope || strings.HasPrefix(path, strings.TrimSuffix(scope, content.PathSeparator)+content.PathSeparator)
}

func (c Condition) matches(node *content.Node) bool {
	switch c.Op {
	case OpEq:
		return node.PropertyString(c.Property) == c.Value
	case OpNotEq:
		return node.PropertyString(c.Property) != c.Value
	case OpIsNull:
		return !node.HasProperty(c.Property)
	case OpNotNull:
		return node.HasProperty(c.Property)
	case OpBefore:
		t := node.PropertyTime(c.Property)
		return !t.IsZero() && t.Before(c.Time)
	case OpAfter:
		t := node.PropertyTime(c.Property)
		return !t.IsZero() && t.After(c.Time)
	}
	return false
}

func (v Visibility) matches(node *content.Node) bool {
	conditions := visibilityConditions(node)
	if conditions == nil {
		return false
	}
	for _, conditionType := range v.RequireConditionTypes {
		if !hasConditionOfType(conditions, conditionType) {
			return false
		}
	}
	if !v.EndBefore.IsZero() && !hasDateRange(conditions, func(start, end time.Time) bool {
		return !end.IsZero() && end.Before(v.EndBefore)
	}) {
		return false
	}
	if !v.StartAfter.IsZero() && !hasDateRange(conditions, func(start, end time.Time) bool {
		return !start.IsZero() && start.After(v.StartAfter)
	}) {
		return false
	}
	if !v.InvalidAt.IsZero() && !hasDateRange(conditions, func(start, end time.Time) bool {
		return (!start.IsZero() && start.After(v.InvalidAt)) || (!end.IsZero() && end.Before(v.InvalidAt))
	}) {
		return false
	}
	return true
}

// visibilityConditions the condition child nodes of a node's conditional
// visibility child, nil if the node has none
func visibilityConditions(node *content.Node) []*content.Node {
	for _, childNode := range node.Nodes {
		if childNode.Type == content.TypeConditionalVisibility {
			return childNode.Children()
		}
	}
	return nil
}

func hasConditionOfType(conditions []*content.Node, conditionType string) bool {
	for _, condition := range conditions {
		if condition.Type == conditionType {
			return true
		}
	}
	return false
}

func hasDateRange(conditions []*content.Node, test func(start, end time.Time) bool) bool {
	for _, condition := range conditions {
		if condition.Type != content.TypeStartEndDateCondition {
			continue
		}
		if test(condition.PropertyTime(content.PropStart), condition.PropertyTime(content.PropEnd)) {
			return true
		}
	}
	return false
}

// ------------------------------------------------------------------------------------------------
// ~ Ordering
// ------------------------------------------------------------------------------------------------

func sortNodes(nodes []*content.Node, orderBy string, descending bool) {
	if orderBy == "" || orderBy == OrderByPath {
		sort.SliceStable(nodes, func(i, j int) bool {
			if descending {
				return nodes[j].Path < nodes[i].Path
			}
			return nodes[i].Path < nodes[j].Path
		})
		return
	}
	key := func(node *content.Node) string {
		switch orderBy {
		case OrderByName:
			return node.Name
		case OrderByType:
			return node.Type
		default:
			return node.PropertyString(orderBy)
		}
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := key(nodes[i]), key(nodes[j])
		if a == b {
			// ties keep a stable path order
			a, b = nodes[i].Path, nodes[j].Path
		}
		if descending {
			return b < a
		}
		return a < b
	})
}
