package internalenv

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	EnvSep = "_"
	envRep = strings.NewReplacer("-", EnvSep, ".", EnvSep)
)

const (
	FlagAnnotation = "___leodido_watermarks_flagenvs"
	KeyAnnotation  = "___leodido_watermarks_flagkey"
)

func NormEnv(str string) string {
	return envRep.Replace(strings.ToUpper(str))
}

// EnvName returns the environment variable read for the flag name.
func EnvName(prefix, name string) string {
	if prefix == "" {
		return NormEnv(name)
	}

	return NormEnv(prefix) + EnvSep + NormEnv(name)
}

// Annotate records that the flag name of fs sets the settings key, and that it can come from the environment.
func Annotate(fs *pflag.FlagSet, name, key, prefix string) error {
	if err := fs.SetAnnotation(name, KeyAnnotation, []string{key}); err != nil {
		return err
	}

	return fs.SetAnnotation(name, FlagAnnotation, []string{EnvName(prefix, name)})
}

// BindEnv makes v read every annotated flag of c under its key, falling back to its environment variables.
func BindEnv(c *cobra.Command, v *viper.Viper) error {
	var errs []error
	c.Flags().VisitAll(func(f *pflag.Flag) {
		keys, ok := f.Annotations[KeyAnnotation]
		if !ok || len(keys) == 0 {
			return
		}
		key := keys[0]
		if err := v.BindPFlag(key, f); err != nil {
			errs = append(errs, fmt.Errorf("couldn't bind flag %q: %w", f.Name, err))

			return
		}
		input := append([]string{key}, f.Annotations[FlagAnnotation]...)
		if err := v.BindEnv(input...); err != nil {
			errs = append(errs, fmt.Errorf("couldn't bind the environment of flag %q: %w", f.Name, err))
		}
	})

	return errors.Join(errs...)
}
