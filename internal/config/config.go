package internalconfig

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/leodido/watermarks/config"
	"github.com/spf13/viper"
)

// Setup tells v where the settings file is.
//
// An explicit file wins over the environment variable, which wins over the search paths.
func Setup(v *viper.Viper, configFile string, opts config.Options) {
	if cfgFile := strings.TrimSpace(configFile); cfgFile != "" {
		v.SetConfigFile(cfgFile)

		return
	}

	if opts.EnvVar != "" {
		if envConfigPath := strings.TrimSpace(os.Getenv(opts.EnvVar)); envConfigPath != "" {
			v.SetConfigFile(envConfigPath)

			return
		}
	}

	for _, searchPath := range resolveSearchPaths(opts.SearchPaths, opts.CustomPaths, opts.AppName, false) {
		v.AddConfigPath(searchPath)
	}

	// Viper tries every supported extension
	v.SetConfigName(opts.ConfigName)
}

// Read loads the settings file into v.
//
// A missing file is not an error: the settings keep their defaults.
func Read(v *viper.Viper) (inUse bool, message string, err error) {
	err = v.ReadInConfig()
	if err == nil {
		return true, fmt.Sprintf("Using settings file: %s", v.ConfigFileUsed()), nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return false, "Running without a settings file", nil
	}

	return false, "", fmt.Errorf("couldn't read the settings file %s: %w", v.ConfigFileUsed(), err)
}

// resolveSearchPaths converts the strategies to directories.
//
// When mask is true it returns templates (eg., $HOME) for descriptions, actual directories otherwise.
func resolveSearchPaths(pathTypes []config.SearchPathType, customPaths []string, appName string, mask bool) []string {
	var paths []string
	hidden := fmt.Sprintf(".%s", appName)
	customPathsUsed := false

	for _, pathType := range pathTypes {
		switch pathType {
		case config.SearchPathEtc:
			paths = append(paths, path.Join("/etc", appName))

		case config.SearchPathHomeHidden:
			if mask {
				paths = append(paths, path.Join("$HOME", hidden))
			} else if home, _ := os.UserHomeDir(); home != "" {
				paths = append(paths, filepath.Join(home, hidden))
			}

		case config.SearchPathWorkingDirHidden:
			if mask {
				paths = append(paths, path.Join("$PWD", hidden))
			} else if pwd, _ := os.Getwd(); pwd != "" {
				paths = append(paths, filepath.Join(pwd, hidden))
			}

		case config.SearchPathExecutableDirHidden:
			if mask {
				paths = append(paths, path.Join("{executable_dir}", hidden))
			} else if exec, _ := os.Executable(); exec != "" {
				paths = append(paths, filepath.Join(filepath.Dir(exec), hidden))
			}

		case config.SearchPathCustom:
			if customPathsUsed {
				continue
			}
			for _, customPath := range customPaths {
				if mask {
					paths = append(paths, strings.ReplaceAll(customPath, "{APP}", appName))
				} else {
					paths = append(paths, resolveSearchPath(customPath, appName))
				}
			}
			customPathsUsed = true
		}
	}

	return paths
}

// resolveSearchPath expands environment variables and the {APP} placeholder
func resolveSearchPath(searchPath, appName string) string {
	expanded := os.ExpandEnv(searchPath)
	expanded = strings.ReplaceAll(expanded, "{APP}", appName)
	// $PWD is not always exported
	if strings.Contains(expanded, "$PWD") {
		pwd, _ := os.Getwd()
		expanded = strings.ReplaceAll(expanded, "$PWD", pwd)
	}

	return expanded
}

// Description documents the config flag with the first search paths.
func Description(opts config.Options) string {
	templatePaths := resolveSearchPaths(opts.SearchPaths, opts.CustomPaths, opts.AppName, true)
	if len(templatePaths) == 0 {
		return "settings file"
	}
	if len(templatePaths) > 3 {
		templatePaths = templatePaths[:3]
	}

	return fmt.Sprintf("settings file (fallbacks to: {%s}/%s.{yaml,json,toml})", strings.Join(templatePaths, ","), opts.ConfigName)
}
