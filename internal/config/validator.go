package config

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	opserrors "github.com/opsbook/opsbook/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	moduleNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("module_name", func(fl validator.FieldLevel) bool {
			return moduleNamePattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// ValidatePlaybook performs schema validation on a parsed playbook.
func ValidatePlaybook(pb *Playbook) error {
	if pb == nil {
		return opserrors.NewValidationError("playbook", "playbook is nil", nil)
	}
	if len(pb.Tasks) == 0 {
		return opserrors.NewValidationError("playbook", "playbook contains no tasks", nil)
	}

	v := validatorInstance()
	for i, task := range pb.Tasks {
		if err := v.Struct(task); err != nil {
			return convertValidationError(fieldForTask(i), err)
		}

		for key, value := range task.Params {
			if err := validateParamValue(value); err != nil {
				return opserrors.NewValidationError(
					fmt.Sprintf("%s.params.%s", fieldForTask(i), key), err.Error(), nil)
			}
		}
	}

	return nil
}

// ValidateInventory performs schema validation on a parsed inventory.
func ValidateInventory(inv *Inventory) error {
	if inv == nil {
		return opserrors.NewValidationError("inventory", "inventory is nil", nil)
	}
	if len(inv.Hosts) == 0 {
		return opserrors.NewValidationError("inventory", "inventory contains no hosts", nil)
	}

	v := validatorInstance()
	seen := make(map[string]struct{}, len(inv.Hosts))

	for _, host := range inv.Hosts {
		if host.Name == "" {
			return opserrors.NewValidationError("hosts", "host name must not be empty", nil)
		}
		if _, dup := seen[host.Name]; dup {
			return opserrors.NewValidationError("hosts", fmt.Sprintf("duplicate host %q", host.Name), nil)
		}
		seen[host.Name] = struct{}{}

		if err := v.Struct(host); err != nil {
			return convertValidationError(fmt.Sprintf("hosts[%s]", host.Name), err)
		}
	}

	return nil
}

// validateParamValue restricts parameter values to scalars, with a single
// level of scalar-valued mappings allowed for template variables.
func validateParamValue(value any) error {
	switch typed := value.(type) {
	case string, bool, int, int64, float64, nil:
		return nil
	case map[string]any:
		for key, nested := range typed {
			switch nested.(type) {
			case string, bool, int, int64, float64:
			default:
				return fmt.Errorf("nested value %q must be a string, number, or bool", key)
			}
		}
		return nil
	default:
		return fmt.Errorf("value must be a string, number, bool, or mapping of those")
	}
}

func fieldForTask(index int) string {
	return fmt.Sprintf("tasks[%d]", index)
}

func convertValidationError(field string, err error) error {
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return opserrors.NewValidationError(field, err.Error(), err)
	}

	first := validationErrors[0]
	name := strings.ToLower(first.Field())
	message := fmt.Sprintf("failed %q validation", first.Tag())
	return opserrors.NewValidationError(fmt.Sprintf("%s.%s", field, name), message, err)
}
