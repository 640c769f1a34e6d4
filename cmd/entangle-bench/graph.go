package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/delaneyj/entangle"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const (
	configKey  = "config"
	repeatsKey = "repeats"
)

func graphCommand() *cli.Command {
	return &cli.Command{
		Name:  "graph",
		Usage: "Run layered dependency graphs with static and dynamic molecules",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  configKey,
				Usage: "YAML file with graph configurations",
			},
			&cli.UintFlag{
				Name:  repeatsKey,
				Usage: "Runs per configuration, the fastest is reported",
				Value: 5,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger := newLogger(cmd)
			defer logger.Sync()

			cfgs, err := loadGraphConfigs(cmd.String(configKey))
			if err != nil {
				return err
			}
			return withProfile(cmd, func() error {
				return runGraphs(os.Stdout, logger, cfgs, int(cmd.Uint(repeatsKey)))
			})
		},
	}
}

type graphResult struct {
	sum      int
	count    int64
	duration time.Duration
}

func runGraphs(out io.Writer, logger *zap.Logger, cfgs []graphConfig, repeats int) error {
	tbl := tablewriter.NewWriter(out)
	tbl.SetAutoWrapText(false)
	tbl.SetHeader([]string{
		"size", "sources", "read%", "static%",
		"iterations", "test", "time", "updateRate", "title",
	})

	for _, cfg := range cfgs {
		logger.Info("running graph config", zap.String("name", cfg.Name))

		best := graphResult{duration: time.Hour}
		for i := 0; i < repeats; i++ {
			res, err := runGraphOnce(cfg)
			if err != nil {
				return err
			}
			logger.Debug("graph run",
				zap.String("name", cfg.Name),
				zap.Int("repeat", i+1),
				zap.Duration("duration", res.duration),
				zap.Int("sum", res.sum),
			)
			if res.duration < best.duration {
				best = res
			}
		}

		updateRate := float64(best.count) / (float64(best.duration) / float64(time.Millisecond))
		tbl.Append([]string{
			fmt.Sprintf("%dx%d", cfg.Width, cfg.Layers),
			fmt.Sprint(cfg.Sources),
			fmt.Sprint(cfg.ReadFraction),
			fmt.Sprint(cfg.StaticFraction),
			humanize.Comma(int64(cfg.Iterations)),
			cfg.Name,
			fmt.Sprint(best.duration),
			humanize.Comma(int64(updateRate)),
			graphTitle(cfg),
		})
	}
	tbl.Render()
	return nil
}

func graphTitle(cfg graphConfig) string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("%dx%d %d sources", cfg.Width, cfg.Layers, cfg.Sources))
	if cfg.StaticFraction < 1 {
		sb.WriteString(" dynamic")
	}
	if cfg.ReadFraction < 1 {
		sb.WriteString(fmt.Sprintf(" read %0.2f%%", 100*cfg.ReadFraction))
	}
	return sb.String()
}

func runGraphOnce(cfg graphConfig) (graphResult, error) {
	rs := entangle.NewSystem()
	defer rs.Close()

	counter := new(int64)
	g, err := makeGraph(rs, cfg, counter)
	if err != nil {
		return graphResult{}, err
	}
	*counter = 0

	start := time.Now()
	sum := g.run(cfg)
	return graphResult{sum: sum, count: *counter, duration: time.Since(start)}, nil
}

type graph struct {
	sources []*entangle.Atom[int]
	layers  [][]*entangle.Molecule[int]
}

func makeGraph(rs *entangle.System, cfg graphConfig, counter *int64) (*graph, error) {
	g := &graph{sources: make([]*entangle.Atom[int], cfg.Width)}
	prev := make([]entangle.Readable[int], cfg.Width)
	for i := range g.sources {
		src, err := entangle.MakeAtom(rs, i)
		if err != nil {
			return nil, err
		}
		g.sources[i] = src
		prev[i] = src
	}

	random := rand.New(rand.NewSource(0))
	for l := 0; l < cfg.Layers-1; l++ {
		row, err := makeRow(rs, prev, cfg, counter, random)
		if err != nil {
			return nil, err
		}
		g.layers = append(g.layers, row)
		for i, m := range row {
			prev[i] = m
		}
	}
	return g, nil
}

func makeRow(rs *entangle.System, prev []entangle.Readable[int], cfg graphConfig, counter *int64, random *rand.Rand) ([]*entangle.Molecule[int], error) {
	row := make([]*entangle.Molecule[int], len(prev))
	for myDex := range prev {
		mySources := make([]entangle.Readable[int], 0, cfg.Sources)
		for sourceDex := 0; sourceDex < cfg.Sources; sourceDex++ {
			mySources = append(mySources, prev[(myDex+sourceDex)%len(prev)])
		}

		var derive func(get *entangle.Getter) int
		if random.Float64() < cfg.StaticFraction {
			derive = func(get *entangle.Getter) int {
				*counter++
				sum := 0
				for _, source := range mySources {
					sum += entangle.Get(get, source)
				}
				return sum
			}
		} else {
			first, tail := mySources[0], mySources[1:]
			derive = func(get *entangle.Getter) int {
				*counter++
				sum := entangle.Get(get, first)
				if len(tail) == 0 {
					return sum
				}
				shouldDrop := sum&0x1 > 0
				dropDex := sum % len(tail)
				for i := range tail {
					if shouldDrop && i == dropDex {
						continue
					}
					sum += entangle.Get(get, tail[i])
				}
				return sum
			}
		}

		m, err := entangle.MakeMolecule(rs, derive)
		if err != nil {
			return nil, err
		}
		row[myDex] = m
	}
	return row, nil
}

// run writes one source per iteration and reads a fixed subset of the leaves.
// It returns the sum of those leaves at the end.
func (g *graph) run(cfg graphConfig) int {
	random := rand.New(rand.NewSource(0))
	leaves := g.layers[len(g.layers)-1]
	skipCount := int(math.Round(float64(len(leaves)) * (1 - cfg.ReadFraction)))
	readLeaves := removeElems(leaves, skipCount, random)

	for i := 0; i < cfg.Iterations; i++ {
		sourceDex := i % len(g.sources)
		g.sources[sourceDex].Write(i + sourceDex)
		for _, leaf := range readLeaves {
			leaf.Read()
		}
	}

	sum := 0
	for _, leaf := range readLeaves {
		sum += leaf.Read()
	}
	return sum
}

func removeElems[T any](src []T, rmCount int, random *rand.Rand) []T {
	out := make([]T, len(src))
	copy(out, src)
	for i := 0; i < rmCount; i++ {
		rmDex := random.Intn(len(out))
		out[rmDex] = out[len(out)-1]
		out = out[:len(out)-1]
	}
	return out
}
