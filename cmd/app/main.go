package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/halvard/munin/internal"
	pkgconfig "github.com/halvard/munin/pkg/config"
)

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadIfExists(cmd.String("config"), cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	if backend := cmd.String("backend"); backend != "" {
		cfg.Storage.Backend = backend
	}
	if vault := cmd.String("vault"); vault != "" {
		cfg.Vault.Path = vault
	}
	if cmd.Bool("mcp") {
		cfg.App.MCP.Enabled = true
		cfg.App.HTTP.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "munin",
		Usage:  "Index a Markdown vault and answer filtered, ranked queries over HTTP or MCP",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "vault",
				Usage:   "Vault directory (overrides config)",
				Sources: cli.EnvVars("MUNIN_VAULT"),
			},
			&cli.StringFlag{
				Name:    "backend",
				Usage:   "Storage backend: sqlite or memory (overrides config)",
				Sources: cli.EnvVars("MUNIN_BACKEND"),
			},
			&cli.BoolFlag{
				Name:  "mcp",
				Usage: "Serve MCP on stdio instead of HTTP",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
