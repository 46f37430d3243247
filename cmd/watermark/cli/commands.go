package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/leodido/watermarks"
	internalconfig "github.com/leodido/watermarks/internal/config"
	"github.com/leodido/watermarks/presenter"
	"github.com/leodido/watermarks/style"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func (a *app) makeResolveC() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <file>",
		Short: "Print the watermark of a document",
		Long:  "Print whether the watermark shows on top of the given document, and what it shows",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			file, err := absPath(args[0])
			if err != nil {
				return err
			}

			resolver := a.newResolver(a.settings)
			d := resolver.Resolve(file)
			out := decisionOutput{
				File:     file,
				Kind:     d.Kind.String(),
				Decision: d,
			}
			if d.Kind == watermarks.ShowText {
				rendered, errs := style.Apply(style.Default(), d.Style)
				for _, err := range errs {
					resolver.Report("Unable to apply the watermark style", err)
				}
				out.Style = &rendered
			}

			return printDecision(c.OutOrStdout(), a.format, out)
		},
	}
}

func (a *app) makeSettingsC() *cobra.Command {
	var writeTo string

	settingsC := &cobra.Command{
		Use:   "settings",
		Short: "Print the effective watermark settings",
		Long:  "Print the watermark settings resulting from defaults, settings file, environment and flags",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			projects, _ := a.workspace.Projects()
			out := settingsOutput{
				Record:      a.settings.Record(),
				Fingerprint: a.settings.Fingerprint(),
				Projects:    projects,
			}
			if err := printSettings(c.OutOrStdout(), a.format, out); err != nil {
				return err
			}
			if writeTo == "" {
				return nil
			}

			v := viper.New()
			watermarks.Save(v, a.settings)
			if len(projects) > 0 {
				v.Set("projects", projects)
			}
			if err := v.WriteConfigAs(writeTo); err != nil {
				return fmt.Errorf("couldn't write the settings to %s: %w", writeTo, err)
			}
			a.logger.Info("settings written", zap.String("file", writeTo))

			return nil
		},
	}
	settingsC.Flags().StringVar(&writeTo, "write", "", "Also write the effective settings to this file (yaml, json or toml)")

	return settingsC
}

func (a *app) makeWatchC() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file>",
		Short: "Follow the watermark of a document",
		Long:  "Print the render commands of the watermark of the given document, again whenever the document or the settings file change",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			file, err := absPath(args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.watch(ctx, c, file)
		},
	}
}

func (a *app) watch(ctx context.Context, c *cobra.Command, file string) error {
	provider := newReloadingProvider(a.settings)
	resolver := a.newResolver(provider)
	p := presenter.New(resolver, newWriterTarget(c.OutOrStdout(), a.format), presenter.WithLogger(a.logger))

	p.Refresh(presenter.Event{Kind: presenter.DocumentShown, FilePath: file})

	if a.v.ConfigFileUsed() != "" {
		a.v.OnConfigChange(func(e fsnotify.Event) {
			a.logger.Debug("settings file changed", zap.String("file", e.Name))
			if err := internalconfig.Scope(a.v, c); err != nil {
				resolver.Report("Unable to load options", err)

				return
			}
			s, err := watermarks.Load(ctx, a.v)
			if err != nil {
				resolver.Report("Unable to load options", err)

				return
			}
			provider.store(s)
			_ = p.Notify(ctx, presenter.Event{Kind: presenter.SettingsChanged})
		})
		a.v.WatchConfig()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("couldn't watch %s: %w", file, err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(file)); err != nil {
		a.logger.Warn("couldn't watch the document directory", zap.String("dir", filepath.Dir(file)), zap.Error(err))
	}
	go a.forwardDocumentEvents(ctx, watcher, p, file)

	err = p.Run(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}

	return err
}

// forwardDocumentEvents turns file system events about file into presenter events.
func (a *app) forwardDocumentEvents(ctx context.Context, watcher *fsnotify.Watcher, p *presenter.Presenter, file string) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != file {
				continue
			}
			kind := presenter.AttributeChanged
			if e.Has(fsnotify.Create) {
				kind = presenter.DocumentShown
			}
			if err := p.Notify(ctx, presenter.Event{Kind: kind, FilePath: file}); err != nil {
				return
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			a.logger.Warn("watch error", zap.Error(err))
		}
	}
}
