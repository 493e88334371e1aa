package graph

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"graphmark/backend/pkg/errors"
)

// MemoryStore is an in-process Store used by tests and local development.
// Edges keep insertion order, matching the natural edge order of the
// Neo4j-backed Repository.
type MemoryStore struct {
	mu    sync.Mutex
	nodes map[string]*Node
	edges []*Edge
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes: make(map[string]*Node),
	}
}

func (s *MemoryStore) CreateNode(ctx context.Context, labels []string, attrs map[string]interface{}) (*Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	props := copyAttrs(attrs)
	id, ok := props["id"].(string)
	if !ok {
		id = uuid.New().String()
		props["id"] = id
	}

	node := &Node{ID: id, Labels: labels, Attrs: props}
	s.nodes[id] = node
	return node, nil
}

func (s *MemoryStore) GetNode(ctx context.Context, id string) (*Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := s.nodes[id]
	if !ok {
		return nil, errors.NewNodeNotFound(id)
	}
	return node, nil
}

func (s *MemoryStore) CreateEdge(ctx context.Context, fromID, toID, label string, attrs map[string]interface{}) (*Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[fromID]; !ok {
		return nil, errors.NewNodeNotFound(fromID)
	}
	if _, ok := s.nodes[toID]; !ok {
		return nil, errors.NewNodeNotFound(toID)
	}

	props := copyAttrs(attrs)
	id, ok := props["id"].(string)
	if !ok {
		id = uuid.New().String()
		props["id"] = id
	}

	edge := &Edge{ID: id, From: fromID, To: toID, Label: label, Attrs: props}
	s.edges = append(s.edges, edge)
	return edge, nil
}

func (s *MemoryStore) GetEdge(ctx context.Context, id string) (*Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.edges {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, errors.NewEdgeNotFound(id)
}

func (s *MemoryStore) DestroyEdge(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.edges {
		if e.ID == id {
			s.edges = append(s.edges[:i], s.edges[i+1:]...)
			return nil
		}
	}
	// Destroying an absent edge is not an error
	return nil
}

func (s *MemoryStore) EdgesBetween(ctx context.Context, fromID, toID, label string) ([]*Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*Edge
	for _, e := range s.edges {
		if e.From == fromID && e.To == toID && e.Label == label {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *MemoryStore) IncidentEdges(ctx context.Context, nodeID, label string, dir Direction) ([]*Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*Edge
	for _, e := range s.edges {
		if e.Label != label {
			continue
		}
		if dir == DirectionIn && e.To == nodeID {
			out = append(out, e)
		}
		if dir == DirectionOut && e.From == nodeID {
			out = append(out, e)
		}
	}
	return out, nil
}
