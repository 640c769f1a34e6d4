package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/delaneyj/entangle"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const (
	itersKey   = "iters"
	maxSizeKey = "max"
)

var sizes = []int{1, 10, 100, 1_000}

func propagateCommand() *cli.Command {
	return &cli.Command{
		Name:  "propagate",
		Usage: "Write one atom feeding w chains of h molecules, each watched by an effect",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  itersKey,
				Usage: "Writes per configuration",
				Value: 100,
			},
			&cli.UintFlag{
				Name:  maxSizeKey,
				Usage: "Largest width and height to run",
				Value: 100,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger := newLogger(cmd)
			defer logger.Sync()
			return withProfile(cmd, func() error {
				return runPropagate(os.Stdout, logger, int(cmd.Uint(itersKey)), int(cmd.Uint(maxSizeKey)))
			})
		},
	}
}

func addOne(v int) int {
	return v + 1
}

// buildPropagate wires w chains of h molecules onto src and returns the
// number of effect runs so far.
func buildPropagate(rs *entangle.System, src *entangle.Atom[int], w, h int) (*int, error) {
	runs := new(int)
	for i := 0; i < w; i++ {
		var last entangle.Readable[int] = src
		for j := 0; j < h; j++ {
			m, err := entangle.Derive1(rs, last, addOne)
			if err != nil {
				return nil, err
			}
			last = m
		}
		tail := last
		entangle.MakeAtomEffect(rs, func(get *entangle.Getter, _ *entangle.Setter) error {
			entangle.Get(get, tail)
			*runs++
			return nil
		})
	}
	return runs, nil
}

func runPropagate(out io.Writer, logger *zap.Logger, iters, maxSize int) error {
	tbl := table.NewWriter()
	tbl.SetTitle("entangle propagate")
	tbl.SetOutputMirror(out)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, w := range sizes {
		if w > maxSize {
			continue
		}
		for _, h := range sizes {
			if h > maxSize {
				continue
			}
			logger.Info("running propagate", zap.Int("width", w), zap.Int("height", h))

			tach := tachymeter.New(&tachymeter.Config{Size: iters})
			rs := entangle.NewSystem(entangle.WithLogger(logger))
			src := entangle.Must(entangle.MakeAtom(rs, 1))
			if _, err := buildPropagate(rs, src, w, h); err != nil {
				return err
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				src.Update(addOne)
				tach.AddTime(time.Since(start))
			}
			rs.Close()

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("propagate: %d * %d", w, h),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
				},
			})
		}
	}

	tbl.Render()
	return nil
}
