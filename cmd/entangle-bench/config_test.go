package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGraphConfigs(t *testing.T) {
	cfgs, err := parseGraphConfigs([]byte(`
graphs:
  - name: tiny
    width: 4
    layers: 3
    static_fraction: 0.5
    sources: 2
    read_fraction: 1
    iterations: 10
`))
	require.NoError(t, err)
	require.Len(t, cfgs, 1)
	assert.Equal(t, graphConfig{
		Name:           "tiny",
		Width:          4,
		Layers:         3,
		StaticFraction: 0.5,
		Sources:        2,
		ReadFraction:   1,
		Iterations:     10,
	}, cfgs[0])
}

func TestParseGraphConfigsRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", `graphs: []`},
		{"no name", `graphs: [{width: 2, layers: 2, sources: 1, iterations: 1}]`},
		{"more sources than width", `graphs: [{name: x, width: 2, layers: 2, sources: 3, iterations: 1}]`},
		{"single layer", `graphs: [{name: x, width: 2, layers: 1, sources: 1, iterations: 1}]`},
		{"fraction above one", `graphs: [{name: x, width: 2, layers: 2, sources: 1, iterations: 1, read_fraction: 1.5}]`},
		{"not yaml", `graphs: [`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseGraphConfigs([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadGraphConfigs(t *testing.T) {
	cfgs, err := loadGraphConfigs("")
	require.NoError(t, err)
	assert.Equal(t, defaultGraphConfigs, cfgs)

	path := filepath.Join(t.TempDir(), "graphs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("graphs: [{name: x, width: 2, layers: 2, sources: 1, iterations: 1}]"), 0o644))
	cfgs, err = loadGraphConfigs(path)
	require.NoError(t, err)
	require.Len(t, cfgs, 1)
	assert.Equal(t, "x", cfgs[0].Name)

	_, err = loadGraphConfigs(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultGraphConfigsAreValid(t *testing.T) {
	require.NoError(t, validate.Struct(graphFile{Graphs: defaultGraphConfigs}))
}
