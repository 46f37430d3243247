package internalhooks

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"go.uber.org/zap/zapcore"
)

// FolderList is the persisted form of the folder filters: a semicolon separated list.
type FolderList string

// DecodeHookRegistry holds the hooks applied when decoding settings, by name.
var DecodeHookRegistry = map[string]mapstructure.DecodeHookFunc{
	"StringToZapcoreLevelHookFunc": StringToZapcoreLevelHookFunc(),
	"SliceToFolderListHookFunc":    SliceToFolderListHookFunc(";"),
}

// Compose returns every registered hook composed, in a stable order.
func Compose(extra ...mapstructure.DecodeHookFunc) mapstructure.DecodeHookFunc {
	hooks := []mapstructure.DecodeHookFunc{
		DecodeHookRegistry["SliceToFolderListHookFunc"],
		DecodeHookRegistry["StringToZapcoreLevelHookFunc"],
	}
	hooks = append(hooks, extra...)

	return mapstructure.ComposeDecodeHookFunc(hooks...)
}

// StringToZapcoreLevelHookFunc creates a decode hook that converts string values
// to zapcore.Level types during configuration unmarshaling.
func StringToZapcoreLevelHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t != reflect.TypeOf(zapcore.DebugLevel) {
			return data, nil
		}

		level, err := zapcore.ParseLevel(data.(string))
		if err != nil {
			return nil, fmt.Errorf("invalid string for zapcore.Level '%s': %w", data.(string), err)
		}

		return level, nil
	}
}

// SliceToFolderListHookFunc creates a decode hook that accepts the folder filters
// written either as a single separated string or as a list of folders.
func SliceToFolderListHookFunc(sep string) mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeOf(FolderList("")) {
			return data, nil
		}
		if f.Kind() != reflect.Slice && f.Kind() != reflect.Array {
			return data, nil
		}

		v := reflect.ValueOf(data)
		parts := make([]string, 0, v.Len())
		for i := range v.Len() {
			item := v.Index(i).Interface()
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("invalid folder at position %d: expected string, got %T", i, item)
			}
			if s = strings.TrimSpace(s); s != "" {
				parts = append(parts, s)
			}
		}

		return FolderList(strings.Join(parts, sep)), nil
	}
}
