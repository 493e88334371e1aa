package graph

import "context"

// Direction selects which incident edges of a node to traverse
type Direction int

const (
	// DirectionIn selects edges pointing at the node
	DirectionIn Direction = iota
	// DirectionOut selects edges originating from the node
	DirectionOut
)

// Node is a handle to a node in the primary graph store
type Node struct {
	ID     string
	Labels []string
	Attrs  map[string]interface{}
}

// Edge is a handle to a directed edge in the primary graph store
type Edge struct {
	ID    string
	From  string
	To    string
	Label string
	Attrs map[string]interface{}
}

// Store is the narrow interface over the primary graph store. Nodes and
// edges carry an "id" attribute assigned by the store on creation unless the
// caller supplies one (externally-identified nodes such as users).
type Store interface {
	CreateNode(ctx context.Context, labels []string, attrs map[string]interface{}) (*Node, error)
	GetNode(ctx context.Context, id string) (*Node, error)
	CreateEdge(ctx context.Context, fromID, toID, label string, attrs map[string]interface{}) (*Edge, error)
	GetEdge(ctx context.Context, id string) (*Edge, error)
	DestroyEdge(ctx context.Context, id string) error
	EdgesBetween(ctx context.Context, fromID, toID, label string) ([]*Edge, error)
	IncidentEdges(ctx context.Context, nodeID, label string, dir Direction) ([]*Edge, error)
}

// Attr reads a string attribute from a node, empty if absent
func (n *Node) Attr(key string) string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	if s, ok := n.Attrs[key].(string); ok {
		return s
	}
	return ""
}

// Attr reads a string attribute from an edge, empty if absent
func (e *Edge) Attr(key string) string {
	if e == nil || e.Attrs == nil {
		return ""
	}
	if s, ok := e.Attrs[key].(string); ok {
		return s
	}
	return ""
}
