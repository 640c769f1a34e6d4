package main

import (
	"context"
	"fmt"
	"go/format"
	"os"
	"time"

	"github.com/delaneyj/entangle/cmd/codegen/templates"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const (
	sourceCountKey = "count"
	outputKey      = "out"
)

func main() {
	cmd := &cli.Command{
		Name:  "generate",
		Usage: "Generate fixed-arity Derive helpers for entangle",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  sourceCountKey,
				Usage: "Highest number of sources to generate a Derive function for",
				Value: 4,
			},
			&cli.StringFlag{
				Name:  outputKey,
				Usage: "Path of the generated file",
				Value: "derive_gen.go",
			},
		},
		Action: generate,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func generate(ctx context.Context, cmd *cli.Command) error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer logger.Sync()
	log := logger.Sugar()

	start := time.Now()
	log.Infof("Codegen for entangle started")
	defer func() {
		log.Infof("Codegen for entangle finished in %v", time.Since(start))
	}()

	count := int(cmd.Uint(sourceCountKey))
	if count < 1 {
		return fmt.Errorf("%s must be at least 1", sourceCountKey)
	}
	out := cmd.String(outputKey)

	formatted, err := format.Source([]byte(templates.DeriveGen(count)))
	if err != nil {
		return fmt.Errorf("format generated code: %w", err)
	}
	if err := os.WriteFile(out, formatted, 0644); err != nil {
		return err
	}
	log.Infow("wrote derive helpers", "path", out, "count", count)
	return nil
}
