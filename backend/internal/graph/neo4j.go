package graph

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"graphmark/backend/pkg/errors"
	"graphmark/backend/pkg/logger"
)

// Repository is the Neo4j-backed primary store
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewRepository creates a new graph repository
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.Get(),
	}
}

// Close closes the Neo4j driver connection
func (r *Repository) Close() error {
	return r.driver.Close(context.Background())
}

// CreateNode creates a node with the given labels and attributes. An "id"
// attribute is assigned unless the caller provided one.
func (r *Repository) CreateNode(ctx context.Context, labels []string, attrs map[string]interface{}) (*Node, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	props := copyAttrs(attrs)
	if _, ok := props["id"].(string); !ok {
		props["id"] = uuid.New().String()
	}

	// Labels are internal constants, never caller input
	query := "CREATE (n:" + strings.Join(labels, ":") + ") SET n = $props RETURN n.id as id"

	result, err := session.Run(ctx, query, map[string]interface{}{"props": props})
	if err != nil {
		return nil, errors.NewGraphQueryFailed(query, err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return nil, errors.NewGraphQueryFailed(query, err)
	}

	node := &Node{
		ID:     getStringFromRecord(record, "id"),
		Labels: labels,
		Attrs:  props,
	}

	r.logger.Debug("Node created",
		zap.String("node_id", node.ID),
		zap.Strings("labels", labels),
	)
	return node, nil
}

// GetNode fetches a node by its id attribute
func (r *Repository) GetNode(ctx context.Context, id string) (*Node, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (n {id: $id})
		RETURN labels(n) as labels, properties(n) as props
	`

	result, err := session.Run(ctx, query, map[string]interface{}{"id": id})
	if err != nil {
		return nil, errors.NewGraphQueryFailed(query, err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, errors.NewGraphQueryFailed(query, err)
		}
		return nil, errors.NewNodeNotFound(id)
	}

	record := result.Record()
	return &Node{
		ID:     id,
		Labels: getStringSliceFromRecord(record, "labels"),
		Attrs:  getMapFromRecord(record, "props"),
	}, nil
}

// CreateEdge creates a directed edge between two existing nodes. CREATE, not
// MERGE: repeated calls for the same pair produce duplicate edges.
func (r *Repository) CreateEdge(ctx context.Context, fromID, toID, label string, attrs map[string]interface{}) (*Edge, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	props := copyAttrs(attrs)
	if _, ok := props["id"].(string); !ok {
		props["id"] = uuid.New().String()
	}

	query := `
		MATCH (a {id: $from}), (b {id: $to})
		CREATE (a)-[e:` + label + `]->(b)
		SET e = $props
		RETURN e.id as id
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"from":  fromID,
		"to":    toID,
		"props": props,
	})
	if err != nil {
		return nil, errors.NewGraphQueryFailed(query, err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		// Single fails when either endpoint does not exist
		return nil, errors.NewGraphQueryFailed(query, err)
	}

	edge := &Edge{
		ID:    getStringFromRecord(record, "id"),
		From:  fromID,
		To:    toID,
		Label: label,
		Attrs: props,
	}

	r.logger.Debug("Edge created",
		zap.String("edge_id", edge.ID),
		zap.String("label", label),
		zap.String("from", fromID),
		zap.String("to", toID),
	)
	return edge, nil
}

// GetEdge fetches an edge by its id attribute
func (r *Repository) GetEdge(ctx context.Context, id string) (*Edge, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (a)-[e {id: $id}]->(b)
		RETURN a.id as from, b.id as to, type(e) as label, properties(e) as props
	`

	result, err := session.Run(ctx, query, map[string]interface{}{"id": id})
	if err != nil {
		return nil, errors.NewGraphQueryFailed(query, err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, errors.NewGraphQueryFailed(query, err)
		}
		return nil, errors.NewEdgeNotFound(id)
	}

	record := result.Record()
	return &Edge{
		ID:    id,
		From:  getStringFromRecord(record, "from"),
		To:    getStringFromRecord(record, "to"),
		Label: getStringFromRecord(record, "label"),
		Attrs: getMapFromRecord(record, "props"),
	}, nil
}

// DestroyEdge removes an edge by its id attribute. Destroying an edge that
// no longer exists is not an error.
func (r *Repository) DestroyEdge(ctx context.Context, id string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MATCH ()-[e {id: $id}]->()
		DELETE e
	`

	_, err := session.Run(ctx, query, map[string]interface{}{"id": id})
	if err != nil {
		return errors.NewGraphQueryFailed(query, err)
	}

	r.logger.Debug("Edge destroyed", zap.String("edge_id", id))
	return nil
}

// EdgesBetween returns every edge with the given label from one node to
// another, duplicates included.
func (r *Repository) EdgesBetween(ctx context.Context, fromID, toID, label string) ([]*Edge, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (a {id: $from})-[e:` + label + `]->(b {id: $to})
		RETURN properties(e) as props
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"from": fromID,
		"to":   toID,
	})
	if err != nil {
		return nil, errors.NewGraphQueryFailed(query, err)
	}

	var edges []*Edge
	for result.Next(ctx) {
		props := getMapFromRecord(result.Record(), "props")
		edges = append(edges, &Edge{
			ID:    getStringFromMap(props, "id", ""),
			From:  fromID,
			To:    toID,
			Label: label,
			Attrs: props,
		})
	}
	if err := result.Err(); err != nil {
		return nil, errors.NewGraphQueryFailed(query, err)
	}
	return edges, nil
}

// IncidentEdges returns the edges with the given label touching a node in
// the given direction, in the store's natural order.
func (r *Repository) IncidentEdges(ctx context.Context, nodeID, label string, dir Direction) ([]*Edge, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	var query string
	if dir == DirectionIn {
		query = `
			MATCH (a)-[e:` + label + `]->(b {id: $node})
			RETURN a.id as from, b.id as to, properties(e) as props
		`
	} else {
		query = `
			MATCH (a {id: $node})-[e:` + label + `]->(b)
			RETURN a.id as from, b.id as to, properties(e) as props
		`
	}

	result, err := session.Run(ctx, query, map[string]interface{}{"node": nodeID})
	if err != nil {
		return nil, errors.NewGraphQueryFailed(query, err)
	}

	var edges []*Edge
	for result.Next(ctx) {
		record := result.Record()
		props := getMapFromRecord(record, "props")
		edges = append(edges, &Edge{
			ID:    getStringFromMap(props, "id", ""),
			From:  getStringFromRecord(record, "from"),
			To:    getStringFromRecord(record, "to"),
			Label: label,
			Attrs: props,
		})
	}
	if err := result.Err(); err != nil {
		return nil, errors.NewGraphQueryFailed(query, err)
	}
	return edges, nil
}

func copyAttrs(attrs map[string]interface{}) map[string]interface{} {
	props := make(map[string]interface{}, len(attrs)+1)
	for k, v := range attrs {
		props[k] = v
	}
	return props
}
