package internalconfig

import (
	"maps"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Merge flattens the settings that apply to command c.
//
// Top-level values act as defaults, overridden by the section named after the command path (eg., watch: {...}).
func Merge(globalSettings map[string]any, c *cobra.Command) map[string]any {
	merged := make(map[string]any)

	for key, value := range globalSettings {
		// Sections belong to commands, not to the settings
		if _, isMap := value.(map[string]any); !isMap {
			merged[key] = value
		}
	}

	var section map[string]any
	current := globalSettings
	for _, part := range strings.Split(c.CommandPath(), " ")[1:] {
		settings, ok := current[part]
		if !ok {
			section = nil

			break
		}
		settingsMap, isMap := settings.(map[string]any)
		if !isMap {
			section = nil

			break
		}
		current = settingsMap
		section = settingsMap
	}

	maps.Copy(merged, section)

	return merged
}

// Scope makes the section of command c take precedence over the top-level settings in v.
func Scope(v *viper.Viper, c *cobra.Command) error {
	if v.ConfigFileUsed() == "" {
		return nil
	}

	return v.MergeConfigMap(Merge(v.AllSettings(), c))
}
