package main

import (
	"bytes"
	"testing"

	"github.com/delaneyj/entangle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildPropagate(t *testing.T) {
	rs := entangle.NewSystem()
	src := entangle.Must(entangle.MakeAtom(rs, 1))

	runs, err := buildPropagate(rs, src, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, *runs)

	src.Write(2)
	assert.Equal(t, 6, *runs)
}

func TestRunPropagate(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runPropagate(&out, zap.NewNop(), 5, 10))
	assert.Contains(t, out.String(), "propagate: 10 * 10")
	assert.NotContains(t, out.String(), "propagate: 100")
}

func TestGraphTracksWrites(t *testing.T) {
	// two layers of static sums over a ring of three sources
	cfg := graphConfig{Name: "ring", Width: 3, Layers: 3, StaticFraction: 1, Sources: 2, ReadFraction: 1, Iterations: 1}

	rs := entangle.NewSystem()
	counter := new(int64)
	g, err := makeGraph(rs, cfg, counter)
	require.NoError(t, err)
	require.Len(t, g.layers, 2)

	// sources 0,1,2 -> layer 1: 1,3,2 -> layer 2: 4,5,3
	leaves := g.layers[1]
	assert.Equal(t, 4, leaves[0].Read())
	assert.Equal(t, 5, leaves[1].Read())
	assert.Equal(t, 3, leaves[2].Read())

	g.sources[0].Write(10)
	// layer 1: 11,3,12 -> layer 2: 14,15,23
	assert.Equal(t, 14, leaves[0].Read())
	assert.Equal(t, 15, leaves[1].Read())
	assert.Equal(t, 23, leaves[2].Read())
}

func TestRunGraphs(t *testing.T) {
	cfgs := []graphConfig{
		{Name: "tiny static", Width: 4, Layers: 3, StaticFraction: 1, Sources: 2, ReadFraction: 1, Iterations: 20},
		{Name: "tiny dynamic", Width: 4, Layers: 3, StaticFraction: 0, Sources: 3, ReadFraction: 0.5, Iterations: 20},
	}
	var out bytes.Buffer
	require.NoError(t, runGraphs(&out, zap.NewNop(), cfgs, 1))
	assert.Contains(t, out.String(), "tiny static")
	assert.Contains(t, out.String(), "4x3 3 sources dynamic read 50.00%")
}
