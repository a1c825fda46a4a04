package mgo

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/apparentlyarhm/validator/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestMgo connects to MONGODB_DIAL and returns a store on a throwaway
// database.
func newTestMgo(t *testing.T) *Mgo {
	t.Helper()

	dial := os.Getenv("MONGODB_DIAL")
	if dial == "" {
		t.Skip("MONGODB_DIAL not set")
	}

	m, err := NewMgo(Config{
		DialAddress: dial,
		Database:    fmt.Sprintf("validator_test_%d", time.Now().UnixNano()),
	})
	require.NoError(t, err)
	require.NoError(t, m.Init())

	t.Cleanup(func() {
		m.session.DB(m.dbname).DropDatabase()
		m.Close()
	})
	return m
}

func TestExecutions(t *testing.T) {
	m := newTestMgo(t)

	conn := m.Copy()
	defer conn.Close()
	store := conn.Executions()

	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"KICK", "SAY", "STOP"} {
		require.NoError(t, store.Insert(types.Execution{
			ID:        fmt.Sprintf("id-%d", i),
			Requester: "key-1",
			Command:   name,
			Arguments: []string{},
			CreatedAt: start.Add(time.Duration(i) * time.Minute),
		}))
	}

	got, err := store.Recent(2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "STOP", got[0].Command)
	assert.Equal(t, "SAY", got[1].Command)

	got, err = store.Recent(0)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	assert.Error(t, store.Insert(types.Execution{ID: "id-0"}), "duplicate id")
}
