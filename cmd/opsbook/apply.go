package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/opsbook/opsbook/internal/config"
	"github.com/opsbook/opsbook/internal/engine"
	"github.com/opsbook/opsbook/internal/logger"
	"github.com/opsbook/opsbook/internal/modules"
	"github.com/opsbook/opsbook/internal/transport"
)

type applyOptions struct {
	PlaybookPath   string
	InventoryPath  string
	ConnectTimeout time.Duration
	CommandTimeout time.Duration
	DryRun         bool
	Verbosity      int
}

var applyCmdRunner = runApply

func newApplyCmd(root *rootFlags) *cobra.Command {
	opts := applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a playbook to every host in an inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.DryRun = root.dryRun
			opts.Verbosity = root.verbosity
			return applyCmdRunner(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.PlaybookPath, "playbook", "f", "", "Path to the playbook file")
	cmd.Flags().StringVarP(&opts.InventoryPath, "inventory", "i", "", "Path to the inventory file")
	cmd.Flags().DurationVar(&opts.ConnectTimeout, "connect-timeout", 10*time.Second, "SSH connection timeout per host")
	cmd.Flags().DurationVar(&opts.CommandTimeout, "command-timeout", 5*time.Minute, "Timeout per task dispatch")
	cmd.MarkFlagRequired("playbook")  //nolint:errcheck
	cmd.MarkFlagRequired("inventory") //nolint:errcheck

	return cmd
}

func runApply(opts applyOptions) error {
	pb, err := config.ParsePlaybook(opts.PlaybookPath)
	if err != nil {
		return err
	}

	inv, err := config.ParseInventory(opts.InventoryPath)
	if err != nil {
		return err
	}

	registry, err := modules.Builtin()
	if err != nil {
		return err
	}

	// Unknown module names fail here, before any host is dialed.
	plan, err := engine.NewPlan(pb, registry)
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Options{
		Level:         logger.LevelForVerbosity(opts.Verbosity),
		HumanReadable: term.IsTerminal(int(os.Stdout.Fd())),
	})
	if err != nil {
		return err
	}

	if opts.DryRun {
		log.Warn("dry-run mode: no remote state will be modified")
	}
	log.Infof("loaded playbook with %d task(s), inventory with %d host(s)", len(pb.Tasks), len(inv.Hosts))

	eng := engine.New(transport.NewSSHDialer(opts.ConnectTimeout), log, engine.Options{
		DryRun:         opts.DryRun,
		CommandTimeout: opts.CommandTimeout,
	})

	result := eng.Run(context.Background(), inv, plan)
	if !result.Success() {
		return fmt.Errorf("playbook failed: %s", result.Summary())
	}

	return nil
}
