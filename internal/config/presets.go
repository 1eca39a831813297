package config

import "sort"

// Presets are named settings records layered between defaults and the file.
var Presets = map[string]Settings{
	"classic": {
		Font: DefaultFont, FontSize: 14, Density: 150, ColorTheme: "green", FaucetOn: true,
	},
	"sparse": {
		Font: DefaultFont, FontSize: 16, Density: 40, ColorTheme: "cyan", FaucetOn: true,
	},
	"storm": {
		Font: DefaultFont, FontSize: 12, Density: 600, ColorTheme: "white", FaucetOn: true,
	},
	"binary": {
		Font: DefaultFont, FontSize: 14, Density: 200, ColorTheme: "blue", DataMode: true, FaucetOn: true,
	},
	"drained": {
		Font: DefaultFont, FontSize: 14, Density: 150, ColorTheme: "purple", FaucetOn: false,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Settings {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return &p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
