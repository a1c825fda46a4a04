package commands

import (
	"errors"
	"testing"

	"github.com/apparentlyarhm/validator/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		want    string
		wantErr error
	}{
		{"KICK", "KICK", nil},
		{"time_set", "TIME_SET", nil},
		{" stop ", "STOP", nil},
		{"OP", "", ErrUnknownCommand},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Lookup(tt.name)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestCommand_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		command string
		args    []string
		want    string
		wantErr error
	}{
		{"one argument", "KICK", []string{"Notch"}, "kick Notch", nil},
		{"two arguments", "TELEPORT", []string{"alice", "bob"}, "tp alice bob", nil},
		{"no arguments", "STOP", nil, "stop", nil},
		{"sentence", "SAY", []string{"restarting in 5 minutes"}, "say restarting in 5 minutes", nil},
		{"disabled", "GIVE", []string{"alice", "diamond", "64"}, "", errs.ErrUnsupportedCommand},
		{"disabled ignores arity", "WHITELIST_ADD", nil, "", errs.ErrUnsupportedCommand},
		{"too few", "TELEPORT", []string{"alice"}, "", ErrArity},
		{"too many", "STOP", []string{"now"}, "", ErrArity},
		{"newline", "SAY", []string{"hi\nstop"}, "", ErrInvalidArgument},
		{"empty", "KICK", []string{" "}, "", ErrInvalidArgument},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, err := Lookup(tt.command)
			require.NoError(t, err)

			got, err := c.Format(tt.args...)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAll(t *testing.T) {
	t.Parallel()

	all := All()
	require.Len(t, all, 12)

	all[0].Enabled = false
	c, err := Lookup(all[0].Name)
	require.NoError(t, err)
	assert.True(t, c.Enabled, "All returns a copy")

	arity := map[string]int{}
	for _, c := range all {
		arity[c.Name] = c.Arity
	}
	assert.Equal(t, 1, arity["KICK"])
	assert.Equal(t, 2, arity["TELEPORT"])
	assert.Equal(t, 3, arity["GIVE"])
	assert.Equal(t, 0, arity["WHITELIST_RELOAD"])
}
