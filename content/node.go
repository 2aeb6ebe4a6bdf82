package content

import (
	"strings"
	"time"
)

// Node a node in a content tree
type Node struct {
	ID         string                 `json:"id"` // unique identifier - it is your responsibility, that they are unique
	Name       string                 `json:"name"`
	Path       string                 `json:"path"`
	Type       string                 `json:"type"`
	Mixins     []string               `json:"mixins,omitempty"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Nodes      map[string]*Node       `json:"nodes,omitempty"`
	Index      []string               `json:"index,omitempty"` // defines the order of the child nodes
	parent     *Node                  // parent node - helps to resolve a path / bread crumb
}

// WireParents helper method to reference from child to parent in a tree
// recursively
func (n *Node) WireParents() {
	for _, childNode := range n.Nodes {
		childNode.parent = n
		childNode.WireParents()
	}
}

// Parent get the parent node of a node
func (n *Node) Parent() *Node {
	return n.parent
}

// Children child nodes in index order, falling back to map order for
// nodes without an index
func (n *Node) Children() []*Node {
	if len(n.Index) > 0 {
		children := make([]*Node, 0, len(n.Index))
		for _, name := range n.Index {
			if childNode, ok := n.Nodes[name]; ok {
				children = append(children, childNode)
			}
		}
		return children
	}
	children := make([]*Node, 0, len(n.Nodes))
	for _, childNode := range n.Nodes {
		children = append(children, childNode)
	}
	return children
}

// Walk calls the given func for the node and all of its descendants
func (n *Node) Walk(walker func(node *Node)) {
	walker(n)
	for _, childNode := range n.Nodes {
		childNode.Walk(walker)
	}
}

// IsType does the node have the given primary or mixin type
func (n *Node) IsType(nodeType string) bool {
	if n.Type == nodeType {
		return true
	}
	for _, mixin := range n.Mixins {
		if mixin == nodeType {
			return true
		}
	}
	return false
}

// IsOneOfTheseTypes is the node one of the given types
func (n *Node) IsOneOfTheseTypes(nodeTypes []string) bool {
	if len(nodeTypes) == 0 {
		return true
	}
	for _, nodeType := range nodeTypes {
		if n.IsType(nodeType) {
			return true
		}
	}
	return false
}

// HasProperty is the property set on the node
func (n *Node) HasProperty(name string) bool {
	_, ok := n.Properties[name]
	return ok
}

// PropertyString string value of a property, empty if unset
func (n *Node) PropertyString(name string) string {
	if value, ok := n.Properties[name].(string); ok {
		return value
	}
	return ""
}

// PropertyBool bool value of a property, false if unset
func (n *Node) PropertyBool(name string) bool {
	switch value := n.Properties[name].(type) {
	case bool:
		return value
	case string:
		return strings.EqualFold(value, "true")
	}
	return false
}

// PropertyTime time value of an RFC 3339 property, zero time if unset or
// unparsable
func (n *Node) PropertyTime(name string) time.Time {
	value, ok := n.Properties[name].(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// PropertyStrings multi valued property as a string slice
func (n *Node) PropertyStrings(name string) []string {
	switch value := n.Properties[name].(type) {
	case []interface{}:
		values := make([]string, 0, len(value))
		for _, v := range value {
			if s, ok := v.(string); ok {
				values = append(values, s)
			}
		}
		return values
	case []string:
		return value
	case string:
		if value == "" {
			return nil
		}
		return []string{value}
	}
	return nil
}

// Translation the translation child node for a language, nil if the node
// is not translated into it
func (n *Node) Translation(lang string) *Node {
	childNode, ok := n.Nodes[TranslationPrefix+lang]
	if ok && childNode.Type == TypeTranslation {
		return childNode
	}
	return nil
}

// Translations all translation child nodes keyed by language
func (n *Node) Translations() map[string]*Node {
	translations := map[string]*Node{}
	for name, childNode := range n.Nodes {
		if childNode.Type == TypeTranslation && strings.HasPrefix(name, TranslationPrefix) {
			translations[strings.TrimPrefix(name, TranslationPrefix)] = childNode
		}
	}
	return translations
}

// TranslatedProperty property value from the translation child of a
// language, falling back to the node itself
func (n *Node) TranslatedProperty(lang, name string) string {
	if translation := n.Translation(lang); translation != nil {
		if value := translation.PropertyString(name); value != "" {
			return value
		}
	}
	return n.PropertyString(name)
}

// ParentPage the closest ancestor page of a node, nil for nodes outside
// of any page
func (n *Node) ParentPage() *Node {
	for parentNode := n.parent; parentNode != nil; parentNode = parentNode.parent {
		if parentNode.Type == TypePage {
			return parentNode
		}
	}
	return nil
}
