package repo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJoin(t *testing.T) {
	require.Equal(t, "SELECT 1 FROM contacts", Join("SELECT 1", "FROM contacts"))
	require.Equal(t, "SELECT 1", Join("SELECT 1", "", "  "))
	require.Equal(t, "", Join())
}

func TestJoinWhere(t *testing.T) {
	require.Equal(t, "", JoinWhere())
	require.Equal(t, "WHERE a = $1", JoinWhere("a = $1"))
	require.Equal(t, "WHERE a = $1 AND b = $2", JoinWhere("a = $1", "b = $2"))
}
