// Package transform converts data-config documents into init-data fixtures.
package transform

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

// Config holds transform command configuration.
type Config struct {
	SrcDir string
	OutDir string
	Now    time.Time
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string, environ map[string]string) (Config, error) {
	defaults, err := config.Load(environ)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{SrcDir: defaults.DataConfigDir, OutDir: defaults.InitDataDir}

	fs.StringVar(&cfg.SrcDir, "src", cfg.SrcDir, "data-config directory")
	fs.StringVar(&cfg.OutDir, "out", cfg.OutDir, "output directory")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run transforms every data-config document. Records keep their fields;
// missing timestamps are filled from cfg.Now, or the current time when
// zero.
func Run(_ context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	now := cfg.Now
	if now.IsZero() {
		now = time.Now()
	}

	fmt.Fprintln(out, report.Rule)
	fmt.Fprintf(out, "Transforming %s -> %s\n", cfg.SrcDir, cfg.OutDir)
	fmt.Fprintln(out, report.Rule)

	written, err := seed.Transform(cfg.SrcDir, cfg.OutDir, now)
	for _, p := range written {
		fmt.Fprintf(out, "[OK] Wrote %s\n", p)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out, report.Rule)
	fmt.Fprintln(out, "[SUCCESS] All documents transformed")
	fmt.Fprintln(out, report.Rule)
	return nil
}
