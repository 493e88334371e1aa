// Package index exposes the secondary query store: a pattern-matching read
// view of the primary graph, used for aggregate queries and url lookups.
// It mirrors the primary store with eventual consistency; divergence between
// the two views is accepted, not an error.
package index

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"graphmark/backend/pkg/errors"
	"graphmark/backend/pkg/logger"
)

// Record exposes named-column value lookup on a single query result row
type Record interface {
	Get(key string) (interface{}, bool)
}

// Index executes read-only pattern-matching queries
type Index interface {
	Run(ctx context.Context, query string, params map[string]interface{}) ([]Record, error)
}

// Neo4jIndex runs Cypher queries over a read session
type Neo4jIndex struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewNeo4jIndex creates an index view backed by the given driver
func NewNeo4jIndex(driver neo4j.DriverWithContext) *Neo4jIndex {
	return &Neo4jIndex{
		driver: driver,
		logger: logger.Get(),
	}
}

// Run executes a query and materializes every result row
func (i *Neo4jIndex) Run(ctx context.Context, query string, params map[string]interface{}) ([]Record, error) {
	session := i.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, errors.NewGraphQueryFailed(query, err)
	}

	var records []Record
	for result.Next(ctx) {
		records = append(records, result.Record())
	}
	if err := result.Err(); err != nil {
		return nil, errors.NewGraphQueryFailed(query, err)
	}

	i.logger.Debug("Index query executed",
		zap.String("query", query),
		zap.Int("rows", len(records)),
	)
	return records, nil
}

// MapRecord is a Record over a plain map, used by tests and fakes
type MapRecord map[string]interface{}

// Get implements Record
func (m MapRecord) Get(key string) (interface{}, bool) {
	v, ok := m[key]
	return v, ok
}

// GetString reads a string column, empty if absent or mistyped
func GetString(r Record, key string) string {
	val, ok := r.Get(key)
	if !ok || val == nil {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

// GetInt64 reads an integer column, zero if absent or mistyped
func GetInt64(r Record, key string) int64 {
	val, ok := r.Get(key)
	if !ok || val == nil {
		return 0
	}
	switch v := val.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}
