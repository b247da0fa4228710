package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Preferences are player-facing defaults read from an optional YAML file.
// Clients can override colour and skill level per game.
type Preferences struct {
	PreferredColour string `yaml:"preferred_colour"`
	SkillLevel      string `yaml:"skill_level"`
	LogLevel        string `yaml:"log_level"`
}

func defaultPreferences() Preferences {
	return Preferences{
		PreferredColour: "B",
		SkillLevel:      "advanced",
		LogLevel:        "info",
	}
}

// LoadPreferences reads the preferences file, falling back to defaults when
// the file is absent or malformed.
func LoadPreferences(path string) Preferences {
	preferences := defaultPreferences()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Could not read preferences file %s: %v, using defaults", path, err)
		}
		return preferences
	}
	if err := yaml.Unmarshal(data, &preferences); err != nil {
		log.Printf("Could not parse preferences file %s: %v, using defaults", path, err)
		return defaultPreferences()
	}
	if preferences.PreferredColour == "" {
		preferences.PreferredColour = "B"
	}
	if preferences.SkillLevel == "" {
		preferences.SkillLevel = "advanced"
	}
	if preferences.LogLevel == "" {
		preferences.LogLevel = "info"
	}
	return preferences
}
