package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/leodido/watermarks"
	"github.com/leodido/watermarks/config"
	internalconfig "github.com/leodido/watermarks/internal/config"
	internalenv "github.com/leodido/watermarks/internal/env"
	internalhooks "github.com/leodido/watermarks/internal/hooks"
	internalusage "github.com/leodido/watermarks/internal/usage"
	"github.com/leodido/watermarks/values"
	"github.com/leodido/watermarks/workspace"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/thediveo/enumflag/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AppName names the binary, the environment prefix and the settings directories.
const AppName = "watermark"

const keyLogLevel = "loglevel"

// app is the state shared by the commands of one invocation.
type app struct {
	v          *viper.Viper
	cfgOpts    config.Options
	configFile string
	envFile    string
	logLevel   zapcore.Level
	format     Format

	folders    []string
	textColor  string
	extraProjs []watermarks.Project

	logger    *zap.Logger
	pane      *watermarks.OutputPane
	settings  *watermarks.Settings
	workspace *workspace.Workspace
}

// settingFlags maps the flags overriding a setting to the setting key.
var settingFlags = map[string]string{
	"enabled":      watermarks.KeyEnabled,
	"folder":       watermarks.KeyFolders,
	"text":         watermarks.KeyText,
	"text-size":    watermarks.KeyTextSize,
	"text-color":   watermarks.KeyTextColor,
	"top":          watermarks.KeyPositionTop,
	"left":         watermarks.KeyPositionLeft,
	"debug-output": watermarks.KeyShowDebugOutput,
	"log-level":    keyLogLevel,
}

// NewRootC creates the watermark command line.
func NewRootC() (*cobra.Command, error) {
	a := &app{
		v:        viper.New(),
		cfgOpts:  config.Options{AppName: AppName}.WithDefaults(),
		logLevel: zapcore.InfoLevel,
		logger:   zap.NewNop(),
	}
	a.v.SetEnvPrefix(AppName)
	a.v.AutomaticEnv()
	a.v.SetDefault(keyLogLevel, "info")

	rootC := &cobra.Command{
		Use:               AppName,
		Short:             "Decide the watermark of editor documents",
		Long:              "Resolve which watermark an editor shows on top of a document, given the watermark settings and the workspace projects",
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		PersistentPreRunE: a.preRun,
	}

	pf := rootC.PersistentFlags()
	pf.StringVar(&a.configFile, a.cfgOpts.FlagName, "", internalconfig.Description(a.cfgOpts))
	if err := rootC.MarkPersistentFlagFilename(a.cfgOpts.FlagName, "yaml", "yml", "json", "toml"); err != nil {
		return nil, fmt.Errorf("couldn't set filename completion: %w", err)
	}
	pf.StringVar(&a.envFile, "env-file", "", "dotenv file loaded before reading the environment (defaults to .env when present)")
	pf.Var(enumflag.New(&a.logLevel, "zapcore.Level", logLevelIds, enumflag.EnumCaseInsensitive), "log-level", "Set log level {debug,info,warn,error}")
	pf.Var(enumflag.New(&a.format, "format", formatIds, enumflag.EnumCaseInsensitive), "format", "Output format {text,json,yaml}")
	pf.Var(values.NewProjects(&a.extraProjs), "project", "Add a workspace project as name=root (repeatable)")

	pf.Bool("enabled", false, "Enable the watermark")
	pf.Var(values.NewFolders(&a.folders), "folder", "Only show the watermark below this folder; ./ makes it relative to the project root (repeatable)")
	pf.String("text", "", "Displayed text, with ${currentfilename}, ${currentdirectoryname}, ${currentprojectname}, ${currentfilepathinproject} or IMG:<path>")
	pf.Float64("text-size", watermarks.DefaultStyle().TextSize, "Text size")
	pf.Var(values.NewColor(&a.textColor), "text-color", "Text color, as a name or #rrggbb")
	pf.Bool("top", false, "Show the watermark at the top")
	pf.Bool("left", false, "Show the watermark on the left")
	pf.Bool("debug-output", false, "Write the diagnostics to stderr")

	for name, key := range settingFlags {
		if err := internalenv.Annotate(pf, name, key, AppName); err != nil {
			return nil, err
		}
	}

	if err := internalusage.Group(pf, "Watermark", "enabled", "folder", "text", "top", "left", "project"); err != nil {
		return nil, err
	}
	if err := internalusage.Group(pf, "Style", "text-size", "text-color"); err != nil {
		return nil, err
	}
	internalusage.Setup(rootC)

	rootC.AddCommand(a.makeResolveC())
	rootC.AddCommand(a.makeSettingsC())
	rootC.AddCommand(a.makeWatchC())

	return rootC, nil
}

// preRun loads the environment, the settings file and the workspace for the command c.
func (a *app) preRun(c *cobra.Command, _ []string) error {
	if err := a.loadDotEnv(); err != nil {
		return err
	}

	internalconfig.Setup(a.v, a.configFile, a.cfgOpts)
	_, configMessage, err := internalconfig.Read(a.v)
	if err != nil {
		return err
	}
	if err := internalconfig.Scope(a.v, c); err != nil {
		return fmt.Errorf("couldn't apply the %s settings: %w", c.Name(), err)
	}
	if err := internalenv.BindEnv(c, a.v); err != nil {
		return err
	}

	if err := a.v.UnmarshalKey(keyLogLevel, &a.logLevel, viper.DecodeHook(internalhooks.Compose())); err != nil {
		return fmt.Errorf("couldn't decode the log level: %w", err)
	}
	a.logger = newLogger(c.ErrOrStderr(), a.logLevel)
	a.logger.Debug(configMessage)

	a.pane = watermarks.NewOutputPane(watermarks.WithPaneLogger(newPaneLogger(c.ErrOrStderr())))

	settings, err := watermarks.Load(c.Context(), a.v)
	if err != nil {
		return err
	}
	a.settings = settings

	ws, err := workspace.Load(a.v)
	if err != nil {
		return err
	}
	if len(a.extraProjs) > 0 {
		projects, _ := ws.Projects()
		ws = workspace.New(append(projects, a.extraProjs...)...)
	}
	a.workspace = ws

	return nil
}

func (a *app) loadDotEnv() error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil {
			return fmt.Errorf("couldn't load %s: %w", a.envFile, err)
		}

		return nil
	}
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load()
	}

	return nil
}

func (a *app) newResolver(provider watermarks.SettingsProvider) *watermarks.Resolver {
	return watermarks.NewResolver(provider, a.workspace,
		watermarks.WithDiagnostics(a.pane),
		watermarks.WithLogger(a.logger),
	)
}

func newLogger(w io.Writer, level zapcore.Level) *zap.Logger {
	encoder := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		MessageKey:  "M",
		LevelKey:    "L",
		NameKey:     "N",
		EncodeLevel: zapcore.LowercaseLevelEncoder,
	})

	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), level))
}

// newPaneLogger writes the diagnostics as plain lines.
func newPaneLogger(w io.Writer) *zap.Logger {
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey: "M",
		NameKey:    "N",
		EncodeName: zapcore.FullNameEncoder,
	})

	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), zapcore.InfoLevel))
}

func absPath(arg string) (string, error) {
	if arg == "" {
		return "", errors.New("empty file path")
	}
	if filepath.IsAbs(arg) {
		return filepath.Clean(arg), nil
	}

	return filepath.Abs(arg)
}
