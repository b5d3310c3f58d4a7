package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Host is one connection record from the inventory. Immutable after load.
type Host struct {
	Name     string `yaml:"-"`
	Address  string `yaml:"ssh_address" validate:"required"`
	Port     int    `yaml:"ssh_port" validate:"omitempty,min=1,max=65535"`
	User     string `yaml:"ssh_user"`
	Password string `yaml:"ssh_password"`
	KeyFile  string `yaml:"ssh_key_file"`
}

// Inventory is the ordered collection of hosts for a run.
type Inventory struct {
	Hosts []Host
}

// UnmarshalYAML decodes the `hosts:` mapping while preserving the order
// hosts were declared in; engine processing order follows it.
func (inv *Inventory) UnmarshalYAML(value *yaml.Node) error {
	type inventoryDoc struct {
		Hosts yaml.Node `yaml:"hosts"`
	}

	var doc inventoryDoc
	if err := value.Decode(&doc); err != nil {
		return err
	}

	if doc.Hosts.Kind == 0 || doc.Hosts.IsZero() {
		return fmt.Errorf("inventory must contain a 'hosts' section")
	}
	if doc.Hosts.Kind != yaml.MappingNode {
		return fmt.Errorf("'hosts' must be a mapping of host name to connection settings")
	}

	inv.Hosts = inv.Hosts[:0]
	for i := 0; i+1 < len(doc.Hosts.Content); i += 2 {
		keyNode := doc.Hosts.Content[i]
		valueNode := doc.Hosts.Content[i+1]

		var host Host
		if err := valueNode.Decode(&host); err != nil {
			return err
		}
		host.Name = keyNode.Value
		if host.Port == 0 {
			host.Port = 22
		}
		inv.Hosts = append(inv.Hosts, host)
	}

	return nil
}

// Task is one playbook entry. Order within the playbook is significant.
type Task struct {
	Name   string         `yaml:"name,omitempty"`
	Module string         `yaml:"module" validate:"required,module_name"`
	Params map[string]any `yaml:"params"`
}

// Label returns the task's display name for report lines.
func (t Task) Label() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Module
}

// Playbook is the ordered task list applied to every host.
type Playbook struct {
	Tasks []Task
}

// UnmarshalYAML accepts the playbook document, a bare list of tasks.
func (p *Playbook) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("playbook must be a list of tasks")
	}

	var tasks []Task
	if err := value.Decode(&tasks); err != nil {
		return err
	}

	p.Tasks = tasks
	return nil
}
