package memory

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestSaveReplacesTable(t *testing.T) {
	s := NewKVStore()

	require.NoError(t, s.SaveTable("ns", map[string]string{"a": "1", "b": "2"}))
	require.NoError(t, s.SaveTable("ns", map[string]string{"c": "3"}))

	table, err := s.LoadTable("ns")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"c": "3"}, table)
}

func TestTablesAreCopied(t *testing.T) {
	s := NewKVStore()
	in := map[string]string{"a": "1"}
	require.NoError(t, s.SaveTable("ns", in))

	in["a"] = "changed"
	out, err := s.LoadTable("ns")
	require.NoError(t, err)
	out["b"] = "added"

	again, err := s.LoadTable("ns")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1"}, again)
}

func TestMissingNamespace(t *testing.T) {
	table, err := NewKVStore().LoadTable("nothing")
	require.NoError(t, err)
	assert.Empty(t, table)
}
