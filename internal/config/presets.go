package config

import "sort"

// Presets adjust a default config for a particular way of running the demo.
var Presets = map[string]func(*Config){
	"demo": func(c *Config) {},
	"headless": func(c *Config) {
		c.Backend = "headless"
		c.Frames = 2500
		c.Logo = ""
	},
	"interactive": func(c *Config) {
		c.Backend = "interactive"
		c.FPS = 60
	},
	"record": func(c *Config) {
		c.Backend = "headless"
		c.Frames = 5000
		c.Record = true
		c.RecordEvery = 5
	},
	// The ground sits above the lowest swing of the escapement's drive
	// weight, so the weight lands on it.
	"drop": func(c *Config) {
		c.Collision.Ground = true
		c.Collision.GroundY = -0.01
		c.MaxPenetrationRecoverySpeed = 0.2
	},
}

// GetPreset returns the default config with the named preset applied, or nil
// if there is no such preset.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
