package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nested/internal/config"
	"nested/internal/log"
	"nested/internal/tracing"
)

var (
	cfgFile string
	script  string
	logPath string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "nestedctl",
		Short: "Headless driver for the nested editing kernel",
		Long: `nestedctl builds a Context, makes a flat <List Char> node, feeds it a
script of edit commands, and prints the resulting contents and
diagnostics as plain text. It owns no terminal state and renders
nothing beyond that.`,
		RunE: runNestedctl,
	}

	root.Flags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: none; NESTED_* env vars and built-in defaults apply)")
	root.Flags().StringVarP(&script, "script", "s", "",
		`whitespace-separated command script, e.g. "insert:hello left split"`)
	root.Flags().StringVar(&logPath, "debug-log", "",
		"path to write debug logs to (default: logging disabled)")

	return root
}

func runNestedctl(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if logPath != "" {
		cleanup, err := log.Init(logPath)
		if err != nil {
			return fmt.Errorf("initializing debug log: %w", err)
		}
		defer cleanup()
		log.Info(log.CatContext, "nestedctl starting", "script", script)
	}

	provider, err := tracing.NewProvider(cfg)
	if err != nil {
		return fmt.Errorf("starting tracing provider: %w", err)
	}
	defer provider.Shutdown(cmd.Context())

	k := newKernel(provider.Tracer())

	if err := k.Run(script); err != nil {
		return err
	}

	fmt.Println("contents:", k.Contents())

	msgs := k.Diagnostics(cfg.DiagLevel())
	if len(msgs) == 0 {
		fmt.Println("diagnostics: (none)")
		return nil
	}
	fmt.Println("diagnostics:")
	for _, m := range msgs {
		fmt.Println(" ", m.String())
	}
	return nil
}
