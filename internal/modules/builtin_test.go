package modules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuiltinRegistersAllModules(t *testing.T) {
	t.Parallel()

	registry, err := Builtin()
	require.NoError(t, err)
	require.Equal(t, []string{"apt", "command", "copy", "service", "sysctl", "template"}, registry.Names())

	for _, name := range registry.Names() {
		m, err := registry.Get(name)
		require.NoError(t, err)
		require.Equal(t, name, m.Name())
	}
}
