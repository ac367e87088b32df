package model

import (
	"time"
)

// NodeType classifies a DOM element into one of the testable element kinds.
type NodeType string

const (
	NodeButton   NodeType = "button"
	NodeInput    NodeType = "input"
	NodeLink     NodeType = "link"
	NodeText     NodeType = "text"
	NodeImage    NodeType = "image"
	NodeSelect   NodeType = "select"
	NodeCheckbox NodeType = "checkbox"
	NodeRadio    NodeType = "radio"
	NodeTable    NodeType = "table"
	NodeForm     NodeType = "form"
	NodeDiv      NodeType = "div"
	NodeSpan     NodeType = "span"
	NodeOther    NodeType = "other"
)

// Position is the top-left corner of an element in page coordinates.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is the rendered width and height of an element.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// PageNode is a typed snapshot of a single DOM element. Parent and children
// are weak references by id; they must resolve within the owning
// PageStructure. A node with an empty ParentID is a root.
type PageNode struct {
	ID            string            `json:"id"`
	Type          NodeType          `json:"type"`
	TagName       string            `json:"tag_name"`
	TextContent   string            `json:"text_content,omitempty"`
	Attributes    map[string]string `json:"attributes"`
	XPath         string            `json:"xpath"`
	CSSSelector   string            `json:"css_selector,omitempty"`
	Position      Position          `json:"position"`
	Size          Size              `json:"size"`
	IsVisible     bool              `json:"is_visible"`
	IsInteractive bool              `json:"is_interactive"`
	ParentID      string            `json:"parent_id,omitempty"`
	Children      []string          `json:"children,omitempty"`
	PageURL       string            `json:"page_url"`
	CreatedAt     time.Time         `json:"created_at"`
}

// Attr returns the named attribute, or def when absent.
func (n *PageNode) Attr(name, def string) string {
	if v, ok := n.Attributes[name]; ok {
		return v
	}
	return def
}

// Clone returns a deep copy of the node. Viewpoints hold clones so that
// later edits to the live page structure never leak into generated cases.
func (n *PageNode) Clone() *PageNode {
	if n == nil {
		return nil
	}
	c := *n
	c.Attributes = make(map[string]string, len(n.Attributes))
	for k, v := range n.Attributes {
		c.Attributes[k] = v
	}
	c.Children = append([]string(nil), n.Children...)
	return &c
}

// PageStructure owns the full set of nodes discovered on one page, in
// discovery order.
type PageStructure struct {
	ID             string     `json:"id"`
	URL            string     `json:"url"`
	Title          string     `json:"title"`
	Nodes          []PageNode `json:"nodes"`
	ScreenshotPath string     `json:"screenshot_path,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at,omitempty"`
}

// Node returns the node with the given id, or nil.
func (s *PageStructure) Node(id string) *PageNode {
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return &s.Nodes[i]
		}
	}
	return nil
}

// InteractiveNodes returns the nodes flagged as interactive, in discovery
// order.
func (s *PageStructure) InteractiveNodes() []PageNode {
	var out []PageNode
	for _, n := range s.Nodes {
		if n.IsInteractive {
			out = append(out, n)
		}
	}
	return out
}

// Now returns the current UTC time truncated to whole seconds. Entity
// timestamps round-trip through JSON at second precision, so they are
// created at that precision too.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
