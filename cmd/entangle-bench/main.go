package main

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const (
	pgoKey     = "pgo"
	verboseKey = "verbose"
)

func main() {
	cmd := &cli.Command{
		Name:  "entangle-bench",
		Usage: "Benchmark entangle propagation",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  pgoKey,
				Usage: "Write a CPU profile to this path",
			},
			&cli.BoolFlag{
				Name:  verboseKey,
				Usage: "Log progress",
			},
		},
		Commands: []*cli.Command{
			propagateCommand(),
			graphCommand(),
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cmd *cli.Command) *zap.Logger {
	if !cmd.Bool(verboseKey) {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// withProfile runs fn with CPU profiling enabled when --pgo is set.
func withProfile(cmd *cli.Command, fn func() error) error {
	path := cmd.String(pgoKey)
	if path == "" {
		return fn()
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		return err
	}
	defer pprof.StopCPUProfile()
	return fn()
}
