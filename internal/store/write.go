package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/probgraph/internal/graph"
)

// PutGraph persists a validated graph under the given model name and returns
// its content-addressed id.
//
// The write is idempotent: the id is graph.GraphID, and ON CONFLICT(id) DO
// NOTHING makes a duplicate put a no-op, node rows included. The model name
// is NFC normalized so two spellings of the same name key identically.
// record_id is a fresh uuid identifying the original insert.
func (s *Store) PutGraph(ctx context.Context, name string, g *graph.Graph) (string, error) {
	id, err := graph.GraphID(g)
	if err != nil {
		return "", fmt.Errorf("put graph: %w", err)
	}
	canonical, err := graph.MarshalCanonical(g)
	if err != nil {
		return "", fmt.Errorf("put graph: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("put graph: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO graphs (id, record_id, name, node_count, query_count, canonical)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		id,
		uuid.NewString(),
		norm.NFC.String(name),
		g.Len(),
		g.QueryCount(),
		canonical,
	)
	if err != nil {
		return "", fmt.Errorf("put graph: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("put graph: rows affected: %w", err)
	}
	if inserted == 0 {
		// Graph already stored; node rows exist too.
		return id, nil
	}

	for _, n := range g.Nodes() {
		if err := insertNode(ctx, tx, id, n); err != nil {
			return "", fmt.Errorf("put graph: node %d: %w", n.Sequence(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("put graph: commit: %w", err)
	}
	return id, nil
}

// insertNode writes one node row. value and query_index are NULL except for
// the variant that carries them.
func insertNode(ctx context.Context, tx *sql.Tx, graphID string, n graph.Node) error {
	parentsJSON, err := json.Marshal(parentsOrEmpty(n))
	if err != nil {
		return fmt.Errorf("marshal parents: %w", err)
	}

	var value any
	var queryIndex any
	switch node := n.(type) {
	case *graph.ConstantNode:
		value = node.Value
	case *graph.QueryNode:
		queryIndex = node.QueryIndex
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO nodes (graph_id, seq, op, value, parents, query_index)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		graphID,
		n.Sequence(),
		n.Op().String(),
		value,
		string(parentsJSON),
		queryIndex,
	)
	return err
}

// parentsOrEmpty keeps stored parent lists non-null for uniform scanning.
func parentsOrEmpty(n graph.Node) []uint {
	parents := graph.ParentsOf(n)
	if parents == nil {
		return []uint{}
	}
	return parents
}
