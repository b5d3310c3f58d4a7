package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	opserrors "github.com/opsbook/opsbook/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// ParsePlaybook loads a playbook file from disk, validates it, and returns
// the resulting task list.
func ParsePlaybook(path string) (*Playbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, opserrors.NewParseError(path, 0, err)
	}

	var pb Playbook
	if err := yaml.Unmarshal(data, &pb); err != nil {
		return nil, opserrors.NewParseError(path, extractLine(err), err)
	}

	if err := ValidatePlaybook(&pb); err != nil {
		return nil, err
	}

	return &pb, nil
}

// ParseInventory loads an inventory file from disk, validates it, and
// returns the hosts in declared order.
func ParseInventory(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, opserrors.NewParseError(path, 0, err)
	}

	var inv Inventory
	if err := yaml.Unmarshal(data, &inv); err != nil {
		return nil, opserrors.NewParseError(path, extractLine(err), err)
	}

	if err := ValidateInventory(&inv); err != nil {
		return nil, err
	}

	return &inv, nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	_, scanErr := fmt.Sscanf(matches[1], "%d", &line)
	if scanErr != nil {
		return 0
	}

	return line
}
