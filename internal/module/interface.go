package module

import (
	"context"

	"github.com/opsbook/opsbook/internal/model"
	"github.com/opsbook/opsbook/internal/transport"
)

// Module is the contract every task handler implements. Implementations are
// stateless; a single instance serves every task bound to its name.
type Module interface {
	// Name returns the module name tasks use to select this handler.
	Name() string

	// Validate checks the task's parameter mapping. It is pure: no I/O, no
	// session access. A missing required key yields *errors.MissingParamError.
	Validate(params Params) error

	// Execute performs the real remote action. Modules with a read-only
	// pre-check compare desired against observed state first and set Changed
	// only when a mutation actually occurred. Execute is the only method
	// permitted to mutate remote state.
	Execute(ctx context.Context, sess transport.Session, params Params) (*model.CmdResult, error)

	// Simulate is the read-only counterpart of Execute. It performs the same
	// state comparison but never issues a mutating remote call; Changed
	// carries the predicted outcome.
	Simulate(ctx context.Context, sess transport.Session, params Params) (*model.CmdResult, error)
}
