// Package modules wires the built-in module set into a registry.
package modules

import (
	"github.com/opsbook/opsbook/internal/module"
	aptmodule "github.com/opsbook/opsbook/internal/modules/apt"
	commandmodule "github.com/opsbook/opsbook/internal/modules/command"
	copymodule "github.com/opsbook/opsbook/internal/modules/copy"
	servicemodule "github.com/opsbook/opsbook/internal/modules/service"
	sysctlmodule "github.com/opsbook/opsbook/internal/modules/sysctl"
	templatemodule "github.com/opsbook/opsbook/internal/modules/template"
)

// Builtin returns a registry holding the built-in module set.
func Builtin() (*module.Registry, error) {
	registry := module.NewRegistry()

	builtins := []module.Module{
		aptmodule.New(),
		commandmodule.New(),
		copymodule.New(),
		servicemodule.New(),
		sysctlmodule.New(),
		templatemodule.New(),
	}

	for _, m := range builtins {
		if err := registry.Register(m); err != nil {
			return nil, err
		}
	}

	return registry, nil
}
