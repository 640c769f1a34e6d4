package main

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

type graphConfig struct {
	Name           string  `yaml:"name" validate:"required"`
	Width          int     `yaml:"width" validate:"min=1"`
	Layers         int     `yaml:"layers" validate:"min=2"`
	StaticFraction float64 `yaml:"static_fraction" validate:"min=0,max=1"`
	Sources        int     `yaml:"sources" validate:"min=1,ltefield=Width"`
	ReadFraction   float64 `yaml:"read_fraction" validate:"min=0,max=1"`
	Iterations     int     `yaml:"iterations" validate:"min=1"`
}

type graphFile struct {
	Graphs []graphConfig `yaml:"graphs" validate:"required,min=1,dive"`
}

// Every source write is pushed eagerly through each dependent, so fan-in
// multiplies work per layer. Keep sources and layers small.
var defaultGraphConfigs = []graphConfig{
	{
		Name:           "simple component",
		Width:          10,
		Layers:         5,
		StaticFraction: 1,
		Sources:        2,
		ReadFraction:   0.2,
		Iterations:     2000,
	},
	{
		Name:           "dynamic component",
		Width:          10,
		Layers:         5,
		StaticFraction: 0.75,
		Sources:        3,
		ReadFraction:   0.2,
		Iterations:     500,
	},
	{
		Name:           "large web app",
		Width:          1000,
		Layers:         4,
		StaticFraction: 0.95,
		Sources:        2,
		ReadFraction:   1,
		Iterations:     500,
	},
	{
		Name:           "deep",
		Width:          5,
		Layers:         100,
		StaticFraction: 1,
		Sources:        1,
		ReadFraction:   1,
		Iterations:     500,
	},
}

func parseGraphConfigs(data []byte) ([]graphConfig, error) {
	var f graphFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse graph config: %w", err)
	}
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("validate graph config: %w", err)
	}
	return f.Graphs, nil
}

func loadGraphConfigs(path string) ([]graphConfig, error) {
	if path == "" {
		return defaultGraphConfigs, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseGraphConfigs(data)
}
