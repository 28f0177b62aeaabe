package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshworks/rnode/internal/journal"
)

func TestSendAndQueryInMemory(t *testing.T) {
	sink, err := New("sqlite://:memory:")
	require.NoError(t, err)
	defer func() { _ = sink.Close() }()

	entries := []journal.Entry{
		{Kind: "state_change", Service: "rigctld", Detail: "running", At: time.Now()},
		{Kind: "exit", Service: "rigctld", Detail: "exit code 1", ExitCode: 1, At: time.Now()},
	}
	for _, e := range entries {
		require.NoError(t, sink.Send(context.Background(), e))
	}

	rows, err := sink.db.Query(`SELECT kind, service, detail, exit_code FROM service_journal ORDER BY rowid`)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	var got []journal.Entry
	for rows.Next() {
		var e journal.Entry
		require.NoError(t, rows.Scan(&e.Kind, &e.Service, &e.Detail, &e.ExitCode))
		got = append(got, e)
	}
	require.NoError(t, rows.Err())
	require.Len(t, got, 2)
	assert.Equal(t, "state_change", got[0].Kind)
	assert.Equal(t, "running", got[0].Detail)
	assert.Equal(t, 1, got[1].ExitCode)
}

func TestNewCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	sink, err := New("sqlite://" + path)
	require.NoError(t, err)
	require.NoError(t, sink.Send(context.Background(), journal.Entry{
		Kind: "state_change", Service: "a", Detail: "running", At: time.Now(),
	}))
	require.NoError(t, sink.Close())

	// Reopening must not fail on the existing schema.
	sink2, err := New(path)
	require.NoError(t, err)
	assert.NoError(t, sink2.Close())
}

func TestNewEmptyDSN(t *testing.T) {
	_, err := New("  ")
	assert.Error(t, err)
}
