package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/probgraph/internal/graph"
)

// ErrNotFound is returned when no graph exists for the requested id.
var ErrNotFound = errors.New("graph not found")

// GraphInfo summarizes a stored graph for listings.
type GraphInfo struct {
	ID         string `json:"id"`
	RecordID   string `json:"record_id"`
	Name       string `json:"name"`
	NodeCount  int    `json:"node_count"`
	QueryCount int    `json:"query_count"`
}

// GetGraph loads the graph with the given id.
//
// The node list is reconstructed from its rows and handed to graph.NewGraph,
// so a loaded graph passes the full validation pass again before any caller
// sees it. A row set that fails validation indicates store corruption and is
// reported, never returned as a partial graph.
func (s *Store) GetGraph(ctx context.Context, id string) (*graph.Graph, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM graphs WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get graph %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get graph: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, op, value, parents, query_index
		FROM nodes
		WHERE graph_id = ?
		ORDER BY seq ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get graph: query nodes: %w", err)
	}
	defer rows.Close()

	var nodes []graph.Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("get graph: %w", err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get graph: iterate nodes: %w", err)
	}

	g, err := graph.NewGraph(nodes)
	if err != nil {
		return nil, fmt.Errorf("get graph %s: stored nodes failed validation: %w", id, err)
	}
	return g, nil
}

// scanNode reconstructs one node from its row.
func scanNode(rows *sql.Rows) (graph.Node, error) {
	var (
		seq         uint
		opName      string
		value       sql.NullFloat64
		parentsJSON string
		queryIndex  sql.NullInt64
	)
	if err := rows.Scan(&seq, &opName, &value, &parentsJSON, &queryIndex); err != nil {
		return nil, fmt.Errorf("scan node: %w", err)
	}

	op, ok := graph.ParseOperator(opName)
	if !ok {
		return nil, fmt.Errorf("node %d: unknown operator %q", seq, opName)
	}

	var parents []uint
	if err := json.Unmarshal([]byte(parentsJSON), &parents); err != nil {
		return nil, fmt.Errorf("node %d: parse parents: %w", seq, err)
	}

	switch op {
	case graph.OpConstant:
		if !value.Valid {
			return nil, fmt.Errorf("node %d: constant without value", seq)
		}
		return &graph.ConstantNode{Seq: seq, Value: value.Float64}, nil

	case graph.OpQuery:
		if !queryIndex.Valid {
			return nil, fmt.Errorf("node %d: query without query_index", seq)
		}
		if len(parents) != 1 {
			return nil, fmt.Errorf("node %d: query with %d parents", seq, len(parents))
		}
		return &graph.QueryNode{Seq: seq, Parent: parents[0], QueryIndex: int(queryIndex.Int64)}, nil

	default:
		return &graph.OperatorNode{Seq: seq, Operator: op, Parents: parents}, nil
	}
}

// ListGraphs returns summaries of all stored graphs, ordered
// deterministically by name then id.
func (s *Store) ListGraphs(ctx context.Context) ([]GraphInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, record_id, name, node_count, query_count
		FROM graphs
		ORDER BY name ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list graphs: %w", err)
	}
	defer rows.Close()

	infos := []GraphInfo{}
	for rows.Next() {
		var info GraphInfo
		if err := rows.Scan(&info.ID, &info.RecordID, &info.Name, &info.NodeCount, &info.QueryCount); err != nil {
			return nil, fmt.Errorf("list graphs: scan: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list graphs: iterate: %w", err)
	}

	return infos, nil
}
