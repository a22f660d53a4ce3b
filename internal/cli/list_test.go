package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/probgraph/internal/store"
	"github.com/roach88/probgraph/internal/testutil"
)

func TestListGraphs(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "graphs.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	ctx := context.Background()
	_, err = st.PutGraph(ctx, "zebra", testutil.MustCoinFlip())
	require.NoError(t, err)
	_, err = st.PutGraph(ctx, "apple", testutil.MustAddChain(3))
	require.NoError(t, err)
	require.NoError(t, st.Close())

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewListCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath})

	err = cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "2 graph(s)")
	assert.Contains(t, output, "apple:")
	assert.Contains(t, output, "zebra: 5 node(s), 1 query(ies)")
	// Deterministic ordering: apple before zebra.
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("apple")), bytes.Index(buf.Bytes(), []byte("zebra")))
}

func TestListGraphsJSON(t *testing.T) {
	dbPath, _ := seedDatabase(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewListCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var infos []store.GraphInfo
	require.NoError(t, json.Unmarshal(data, &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, "coinflip", infos[0].Name)
}

func TestListEmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "graphs.db")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewListCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No graphs stored.")
}
