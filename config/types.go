package config

import (
	"fmt"
	"strings"
)

// SearchPathType is a strategy for locating the settings file.
type SearchPathType int

const (
	// SearchPathEtc searches in /etc/{app}.
	SearchPathEtc SearchPathType = iota
	// SearchPathHomeHidden searches in $HOME/.{app}.
	SearchPathHomeHidden
	// SearchPathWorkingDirHidden searches in $PWD/.{app}.
	SearchPathWorkingDirHidden
	// SearchPathExecutableDirHidden searches in {executable_dir}/.{app}.
	SearchPathExecutableDirHidden
	// SearchPathCustom uses the paths in CustomPaths, where {APP} and environment variables get expanded.
	SearchPathCustom
)

// DefaultSearchPaths are the strategies used when none is given, in lookup order.
var DefaultSearchPaths = []SearchPathType{
	SearchPathWorkingDirHidden,
	SearchPathHomeHidden,
	SearchPathEtc,
}

// Options tells where the watermark settings file lives.
type Options struct {
	AppName     string
	FlagName    string           // Name of the config flag (defaults to "config")
	ConfigName  string           // Settings file name without extension (defaults to "settings")
	EnvVar      string           // Environment variable holding an explicit path (defaults to {APP}_CONFIG)
	SearchPaths []SearchPathType // Search path strategies (defaults to DefaultSearchPaths)
	CustomPaths []string         // Custom search paths (when SearchPaths contains SearchPathCustom)
}

// WithDefaults returns a copy of o where every unset field holds its default.
func (o Options) WithDefaults() Options {
	if o.FlagName == "" {
		o.FlagName = "config"
	}
	if o.ConfigName == "" {
		o.ConfigName = "settings"
	}
	if o.EnvVar == "" && o.AppName != "" {
		o.EnvVar = fmt.Sprintf("%s_CONFIG", strings.ToUpper(strings.ReplaceAll(o.AppName, "-", "_")))
	}
	if len(o.SearchPaths) == 0 {
		o.SearchPaths = DefaultSearchPaths
	}

	return o
}
