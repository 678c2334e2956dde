package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"realestate/internal/backend"
	"realestate/internal/config"
)

// NewCheckEnvCmd creates the check-env subcommand.
func NewCheckEnvCmd() *cobra.Command {
	var probe bool

	cmd := &cobra.Command{
		Use:   "check-env",
		Short: "Report which backend the server would use",
		Long: `Lists configuration keys missing for the selected driver and the mode the
server would resolve to. With --probe the live backend is actually opened.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return runCheckEnv(ctx, cmd, cfg.Backend, probe, nil)
		},
	}

	cmd.Flags().BoolVar(&probe, "probe", false, "open the live backend to verify connectivity")

	return cmd
}

func runCheckEnv(ctx context.Context, cmd *cobra.Command, cfg config.BackendConfig, probe bool, open backend.Opener) error {
	cmd.Printf("driver:  %s\n", cfg.Driver)

	missing := cfg.MissingKeys()
	if len(missing) == 0 {
		cmd.Println("missing: none")
	} else {
		cmd.Printf("missing: %s\n", strings.Join(missing, ", "))
	}

	switch {
	case cfg.ForceMock:
		cmd.Printf("mode:    %s (%s)\n", backend.ModeMock, backend.ReasonForced)
	case len(missing) > 0:
		cmd.Printf("mode:    %s (%s)\n", backend.ModeMock, backend.ReasonMissingKeys)
	case !probe:
		cmd.Printf("mode:    %s (not probed)\n", backend.ModeLive)
	default:
		if open == nil {
			open = backend.Open
		}
		b, err := open(ctx, cfg)
		if err != nil {
			cmd.Printf("mode:    %s (%s: %v)\n", backend.ModeMock, backend.ReasonOpenFailed, err)
			return nil
		}
		if b == nil {
			cmd.Printf("mode:    %s (%s)\n", backend.ModeMock, backend.ReasonOpenFailed)
			return nil
		}
		defer b.Close()
		cmd.Printf("mode:    %s (%s reachable)\n", backend.ModeLive, b.Name())
	}
	return nil
}
