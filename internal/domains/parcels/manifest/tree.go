package manifest

import (
	"strings"

	"github.com/beevik/etree"
)

// node is a case-folded view over an XML element. Attributes are merged in
// as leaf children ahead of the element's own children.
type node struct {
	name     string
	text     string
	children []*node
}

func fromElement(el *etree.Element) *node {
	n := &node{
		name: strings.ToLower(el.Tag),
		text: normalizeSpace(el.Text()),
	}
	for _, attr := range el.Attr {
		n.children = append(n.children, &node{
			name: strings.ToLower(attr.Key),
			text: normalizeSpace(attr.Value),
		})
	}
	for _, child := range el.ChildElements() {
		n.children = append(n.children, fromElement(child))
	}
	return n
}

// child returns the first child matching the aliases, tried in priority order.
func (n *node) child(aliases ...string) *node {
	if n == nil {
		return nil
	}
	for _, alias := range aliases {
		alias = strings.ToLower(alias)
		for _, c := range n.children {
			if c.name == alias {
				return c
			}
		}
	}
	return nil
}

// all returns every child with the given name.
func (n *node) all(name string) []*node {
	if n == nil {
		return nil
	}
	name = strings.ToLower(name)
	var out []*node
	for _, c := range n.children {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

// value returns the text of the first matching child and whether one exists.
func (n *node) value(aliases ...string) (string, bool) {
	c := n.child(aliases...)
	if c == nil {
		return "", false
	}
	return c.text, true
}

func (n *node) isLeaf() bool {
	return n != nil && len(n.children) == 0
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
