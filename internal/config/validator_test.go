package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	opserrors "github.com/opsbook/opsbook/pkg/errors"
)

func TestValidatePlaybookRejectsEmpty(t *testing.T) {
	t.Parallel()

	err := ValidatePlaybook(&Playbook{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "no tasks")
}

func TestValidatePlaybookRejectsBadModuleName(t *testing.T) {
	t.Parallel()

	pb := &Playbook{Tasks: []Task{{Module: "Not A Module"}}}
	err := ValidatePlaybook(pb)

	var validationErr *opserrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Field, "tasks[0]")
}

func TestValidatePlaybookAcceptsScalarParams(t *testing.T) {
	t.Parallel()

	pb := &Playbook{Tasks: []Task{{
		Module: "sysctl",
		Params: map[string]any{"attribute": "vm.swappiness", "value": 10, "permanent": true},
	}}}
	require.NoError(t, ValidatePlaybook(pb))
}

func TestValidatePlaybookAcceptsTemplateVars(t *testing.T) {
	t.Parallel()

	pb := &Playbook{Tasks: []Task{{
		Module: "template",
		Params: map[string]any{
			"src":  "app.tmpl",
			"dest": "/etc/app.conf",
			"vars": map[string]any{"port": 8080, "debug": false},
		},
	}}}
	require.NoError(t, ValidatePlaybook(pb))
}

func TestValidatePlaybookRejectsListParams(t *testing.T) {
	t.Parallel()

	pb := &Playbook{Tasks: []Task{{
		Module: "apt",
		Params: map[string]any{"name": []any{"nginx", "curl"}},
	}}}

	var validationErr *opserrors.ValidationError
	require.ErrorAs(t, ValidatePlaybook(pb), &validationErr)
}

func TestValidateInventoryRejectsEmpty(t *testing.T) {
	t.Parallel()

	err := ValidateInventory(&Inventory{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "no hosts")
}

func TestValidateInventoryRejectsDuplicateHosts(t *testing.T) {
	t.Parallel()

	inv := &Inventory{Hosts: []Host{
		{Name: "web01", Address: "192.168.1.11", Port: 22},
		{Name: "web01", Address: "192.168.1.12", Port: 22},
	}}

	err := ValidateInventory(inv)
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate host")
}
