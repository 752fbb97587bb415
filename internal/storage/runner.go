package storage

import (
	"context"

	"orkg/internal/graph"
)

// GraphStore is a store that can be both written and resolved against.
type GraphStore interface {
	graph.Store
	graph.SchemaStore
}

// Runner runs a unit of work against a GraphStore whose writes land
// together or not at all.
type Runner interface {
	InTx(ctx context.Context, fn func(GraphStore) error) error
}

var (
	_ Runner = (*DB)(nil)
	_ Runner = (*MemoryStore)(nil)
)

// InTx runs fn against the store itself. Writes made before a failure are
// kept; the memory store has no rollback.
func (m *MemoryStore) InTx(_ context.Context, fn func(GraphStore) error) error {
	return fn(m)
}
