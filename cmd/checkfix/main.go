// Command checkfix compares a MySQL database with the schema declaration
// and repairs missing tables and columns.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	checkfixcmd "dbsetup/internal/cmd/checkfix"
)

func main() {
	cfg, err := checkfixcmd.ParseConfig(flag.CommandLine, os.Args[1:], nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = checkfixcmd.Run(ctx, cfg, os.Stdin, os.Stdout, os.Stderr)
	stop()
	if errors.Is(err, checkfixcmd.ErrDriftRemaining) {
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
