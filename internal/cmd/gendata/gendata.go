// Package gendata writes the generated development fixtures.
package gendata

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"dbsetup/internal/config"
	"dbsetup/internal/report"
	"dbsetup/internal/seed"
)

// Config holds gendata command configuration.
type Config struct {
	OutDir string
	// Now anchors every generated timestamp. Zero means the current time.
	Now time.Time
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string, environ map[string]string) (Config, error) {
	defaults, err := config.Load(environ)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{OutDir: defaults.InitDataDir}
	var now string

	fs.StringVar(&cfg.OutDir, "out", cfg.OutDir, "output directory")
	fs.StringVar(&now, "now", "", "reference time in RFC 3339 (default: current time)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if now != "" {
		t, err := time.Parse(time.RFC3339, now)
		if err != nil {
			return Config{}, fmt.Errorf("parse --now: %w", err)
		}
		cfg.Now = t
	}
	return cfg, nil
}

// Run generates the fixtures and writes them to cfg.OutDir.
func Run(_ context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	now := cfg.Now
	if now.IsZero() {
		now = time.Now()
	}

	fmt.Fprintln(out, report.Rule)
	fmt.Fprintln(out, "Generating test data")
	fmt.Fprintln(out, report.Rule)

	fixtures := seed.Generate(now)
	paths, err := seed.WriteFixtures(cfg.OutDir, fixtures)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(out, "[OK] Wrote %s\n", p)
	}

	fmt.Fprintf(out, "     - %d projects\n", len(fixtures.Base.Projects))
	fmt.Fprintf(out, "     - %d simulation types\n", len(fixtures.Base.SimTypes))
	fmt.Fprintf(out, "     - %d parameter definitions\n", len(fixtures.Base.ParamDefs))
	fmt.Fprintf(out, "     - %d users\n", len(fixtures.Users.Users))
	fmt.Fprintf(out, "     - %d roles, %d permissions\n", len(fixtures.Users.Roles), len(fixtures.Users.Permissions))
	fmt.Fprintf(out, "     - %d parameter groups\n", len(fixtures.ParamGroups.OptParamGroups)+len(fixtures.ParamGroups.RespParamGroups))
	return nil
}
