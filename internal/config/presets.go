package config

import "sort"

func preset(mutate func(c *Config)) *Config {
	c := DefaultConfig()
	mutate(c)
	return c
}

var Presets = map[string]*Config{
	"classic": DefaultConfig(),
	"quick": preset(func(c *Config) {
		c.Duration = 0.5
	}),
	"long": preset(func(c *Config) {
		c.Links = 100
		c.TotalMass = 1.0
		c.TotalLength = 2.0
		c.Duration = 10.0
		c.Container.XMax = 0.3
		c.Init.Hanging = 10
		c.Init.PileX = 0.15
	}),
	"stiff": preset(func(c *Config) {
		c.Stiffness = 1e5
		c.Dt = 2e-5
		c.Duration = 1.0
		c.SampleStride = 500
	}),
	"tall": preset(func(c *Config) {
		c.Init.Hanging = 20
		c.Duration = 3.0
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
