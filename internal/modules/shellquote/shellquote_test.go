package shellquote

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuote(t *testing.T) {
	t.Parallel()

	require.Equal(t, "''", Quote(""))
	require.Equal(t, "'nginx'", Quote("nginx"))
	require.Equal(t, `'it'\''s'`, Quote("it's"))
	require.Equal(t, "'a b'", Quote("a b"))
}

func TestJoin(t *testing.T) {
	t.Parallel()

	require.Equal(t, "'a' 'b c'", Join("a", "b c"))
}
