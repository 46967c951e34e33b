package config

var Presets = map[string]map[string]*Config{
	"ridge": {
		"small": {
			Terrain: "ridge", Cells: 100, Uplift: 1.0, Amplitude: 0.2,
			Dt: 0.01, Threshold: 1e-6, MaxSteps: 100000,
		},
		"tall": {
			Terrain: "ridge", Cells: 1000, Uplift: 1.0, Amplitude: 2.0,
			Dt: 0.005, Threshold: 1e-6, MaxSteps: 1000000,
		},
		"wide": {
			Terrain: "ridge", Cells: 10000, Uplift: 1.0, Amplitude: 0.5,
			Dt: 0.01, Threshold: 1e-7, MaxSteps: 1000000,
		},
	},
	"plateau": {
		"uplifting": {
			Terrain: "plateau", Cells: 1000, Uplift: 1.0,
			Dt: 0.01, Threshold: 1e-6, MaxSteps: 1000000,
		},
		"fast": {
			Terrain: "plateau", Cells: 500, Uplift: 4.0,
			Dt: 0.002, Threshold: 1e-6, MaxSteps: 1000000,
		},
	},
	"flat": {
		"baseline": {
			Terrain: "flat", Cells: 1000, Uplift: 1.0,
			Dt: 0.01, Threshold: 1e-6, MaxSteps: 1000000,
		},
	},
}

func GetPreset(terrain, preset string) *Config {
	terrainPresets, ok := Presets[terrain]
	if !ok {
		return nil
	}
	cfg, ok := terrainPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(terrain string) []string {
	terrainPresets, ok := Presets[terrain]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(terrainPresets))
	for name := range terrainPresets {
		names = append(names, name)
	}
	return names
}
