package internalusage

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	localGroupID  = "<local>"
	globalGroupID = "Global"
)

const FlagGroupAnnotation = "___leodido_watermarks_flaggroups"

// Group files the flag name of fs under group in the help output.
func Group(fs *pflag.FlagSet, group string, names ...string) error {
	for _, name := range names {
		if err := fs.SetAnnotation(name, FlagGroupAnnotation, []string{group}); err != nil {
			return err
		}
	}

	return nil
}

// Groups returns the flags of c by group.
//
// Local flags without a group land in the local group, inherited and persistent ones in the global group.
func Groups(c *cobra.Command) map[string]*pflag.FlagSet {
	groups := map[string]*pflag.FlagSet{}
	seen := map[string]bool{}

	addTo := func(f *pflag.Flag, fallback string) {
		if seen[f.Name] || f.Hidden {
			return
		}
		seen[f.Name] = true

		groupID := fallback
		if annotations, ok := f.Annotations[FlagGroupAnnotation]; ok && len(annotations) > 0 {
			groupID = annotations[0]
		}
		if groups[groupID] == nil {
			groups[groupID] = pflag.NewFlagSet(c.Name(), pflag.ContinueOnError)
		}
		groups[groupID].AddFlag(f)
	}

	c.LocalNonPersistentFlags().VisitAll(func(f *pflag.Flag) {
		addTo(f, localGroupID)
	})
	c.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		addTo(f, globalGroupID)
	})
	c.InheritedFlags().VisitAll(func(f *pflag.Flag) {
		addTo(f, globalGroupID)
	})

	return groups
}

// flagUsages trims the trailing whitespace of the usage of f.
func flagUsages(f *pflag.FlagSet) string {
	return strings.TrimRight(f.FlagUsages(), " \n") + "\n"
}

func rpad(s string, padding int) string {
	return fmt.Sprintf(fmt.Sprintf("%%-%ds", padding), s)
}

func tmpl(w io.Writer, text string) error {
	_, err := w.Write([]byte(text))

	return err
}

// Setup makes c (and its subcommands) print the flags by group.
func Setup(c *cobra.Command) {
	c.SetUsageFunc(func(c *cobra.Command) error {
		return tmpl(c.OutOrStderr(), Usage(c))
	})
}

// Usage renders the usage of c.
func Usage(c *cobra.Command) string {
	var b strings.Builder

	b.WriteString("Usage:")
	if c.Runnable() {
		b.WriteString("\n  ")
		b.WriteString(c.UseLine())
	}
	if c.HasAvailableSubCommands() {
		b.WriteString("\n  ")
		b.WriteString(c.CommandPath())
		b.WriteString(" [command]")
	}
	b.WriteString("\n")

	if len(c.Aliases) > 0 {
		b.WriteString("\nAliases:\n  ")
		b.WriteString(c.NameAndAliases())
		b.WriteString("\n")
	}

	if len(c.Example) > 0 {
		b.WriteString("\nExamples:\n")
		b.WriteString(c.Example)
		b.WriteString("\n")
	}

	if c.HasAvailableSubCommands() {
		b.WriteString("\nAvailable Commands:\n")
		for _, cmd := range c.Commands() {
			if !cmd.IsAvailableCommand() && cmd.Name() != "help" {
				continue
			}
			b.WriteString(fmt.Sprintf("  %s %s\n", rpad(cmd.Name(), c.NamePadding()), cmd.Short))
		}
	}

	groups := Groups(c)

	if lFlags, ok := groups[localGroupID]; ok && lFlags.HasFlags() {
		b.WriteString("\nFlags:\n")
		b.WriteString(flagUsages(lFlags))
	}
	delete(groups, localGroupID)

	groupKeys := make([]string, 0, len(groups))
	for k := range groups {
		if k != globalGroupID {
			groupKeys = append(groupKeys, k)
		}
	}
	sort.Strings(groupKeys)

	for _, groupName := range groupKeys {
		if flags := groups[groupName]; flags.HasFlags() {
			b.WriteString(fmt.Sprintf("\n%s Flags:\n", groupName))
			b.WriteString(flagUsages(flags))
		}
	}

	// Global flags go last
	if gFlags, ok := groups[globalGroupID]; ok && gFlags.HasFlags() {
		b.WriteString("\nGlobal Flags:\n")
		b.WriteString(flagUsages(gFlags))
	}

	if c.HasHelpSubCommands() {
		b.WriteString("\nAdditional help topics:\n")
		for _, cmd := range c.Commands() {
			if cmd.IsAdditionalHelpTopicCommand() {
				b.WriteString(fmt.Sprintf("  %s %s\n", rpad(cmd.CommandPath(), c.CommandPathPadding()), cmd.Short))
			}
		}
	}

	if c.HasAvailableSubCommands() {
		b.WriteString(fmt.Sprintf("\nUse \"%s [command] --help\" for more information about a command.\n", c.CommandPath()))
	}

	return b.String()
}
