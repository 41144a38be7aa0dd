// Command figbar shows a status bar fed line by line from stdin.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ryanlewis/figbar"
	"github.com/ryanlewis/figbar/internal/config"
	"github.com/ryanlewis/figbar/internal/debug"
	"github.com/ryanlewis/figbar/internal/fontset"
	"github.com/ryanlewis/figbar/internal/x11"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"pkt.systems/pslog"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// cliFlags holds the flags that are not configuration keys.
type cliFlags struct {
	configPath  string
	printConfig bool
	showVersion bool
	showHelp    bool
	debugMode   bool
	debugFile   string
	debugPretty bool
}

// flagKeys maps configuration keys to the flags that override them.
var flagKeys = []struct{ key, flag string }{
	{"bar.bottom", "bottom"},
	{"bar.width", "width"},
	{"bar.height", "height"},
	{"bar.offset", "offset"},
	{"bar.force_docking", "force-docking"},
	{"bar.permanent", "permanent"},
	{"bar.underline_height", "underline"},
	{"fonts", "font"},
}

func main() {
	os.Exit(run())
}

func run() int {
	var cli cliFlags
	flags := pflag.CommandLine
	defineFlags(flags, &cli)
	pflag.Parse()

	if cli.showHelp {
		printHelp()
		return 0
	}

	if cli.showVersion {
		fmt.Printf("figbar version %s (commit: %s, built: %s)\n", version, commit, date)
		return 0
	}

	logger := pslog.LoggerFromEnv(pslog.WithEnvWriter(os.Stderr))
	ctx, stop := signal.NotifyContext(pslog.ContextWithLogger(context.Background(), logger),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := config.NewLoader()
	loader.SetConfigFile(cli.configPath)
	if err := bindFlags(loader.Viper(), flags); err != nil {
		logger.Error("failed to bind flags", "err", err)
		return 1
	}
	cfg, err := loader.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		return 1
	}
	if used := loader.ConfigFileUsed(); used != "" {
		logger.Debug("config loaded", "path", used)
	}

	if cli.printConfig {
		if err := config.Export(os.Stdout, cfg); err != nil {
			logger.Error("failed to print config", "err", err)
			return 1
		}
		return 0
	}

	if err := serve(ctx, cfg, cli, os.Stdin); err != nil {
		logger.Error("figbar stopped", "err", err)
		return 1
	}
	return 0
}

func defineFlags(flags *pflag.FlagSet, cli *cliFlags) {
	flags.BoolP("bottom", "b", false, "Dock the bar at the bottom of the screen")
	flags.IntP("width", "w", config.DefaultBarWidth, "Bar width in pixels (negative = screen width minus offset)")
	flags.IntP("height", "H", config.DefaultBarHeight, "Bar height in pixels")
	flags.IntP("offset", "x", 0, "Bar offset from the left screen edge")
	flags.BoolP("force-docking", "f", false, "Set override-redirect for window managers without dock support")
	flags.BoolP("permanent", "p", false, "Keep the bar open after the input ends")
	flags.IntP("underline", "u", 0, "Underline height in pixels (0 = none)")
	flags.StringArrayP("font", "F", []string{config.DefaultFont}, "Font spec, repeatable in fallback order (fixed, file.ttf[:size], file.otf[:size], file.flf[:scale])")

	flags.StringVar(&cli.configPath, "config", "", "Path to config file")
	flags.BoolVar(&cli.printConfig, "print-config", false, "Print the effective configuration as YAML and exit")
	flags.BoolVarP(&cli.showVersion, "version", "v", false, "Show version information")
	flags.BoolVarP(&cli.showHelp, "help", "h", false, "Show help message")
	flags.BoolVar(&cli.debugMode, "debug", false, "Enable render tracing (outputs to stderr)")
	flags.StringVar(&cli.debugFile, "debug-file", "", "Write render tracing to file instead of stderr")
	flags.BoolVar(&cli.debugPretty, "debug-pretty", false, "Use pretty format for render tracing (default: JSON)")
}

// bindFlags lets explicitly set flags override the config file and the
// environment.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, fk := range flagKeys {
		if err := v.BindPFlag(fk.key, flags.Lookup(fk.flag)); err != nil {
			return fmt.Errorf("bind --%s: %w", fk.flag, err)
		}
	}
	return nil
}

// serve loads the fonts, opens the window and runs the bar until the input
// ends, a signal arrives or the X connection goes away.
func serve(ctx context.Context, cfg config.Config, cli cliFlags, in io.Reader) error {
	logger := pslog.Ctx(ctx)

	palette, err := cfg.Palette.Palette()
	if err != nil {
		return err
	}

	set, err := loadFonts(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := set.Close(); err != nil {
			logger.Warn("failed to close fonts", "err", err)
		}
	}()
	logger.Info("fonts loaded", "fonts", cfg.Fonts, "line_height", set.LineHeight())

	session, closeDebug, err := openDebug(cli)
	if err != nil {
		return err
	}
	defer closeDebug()

	presenter, err := x11.Open(ctx, x11.Options{
		Width:        cfg.Bar.Width,
		Height:       cfg.Bar.Height,
		Offset:       cfg.Bar.Offset,
		Bottom:       cfg.Bar.Bottom,
		ForceDocking: cfg.Bar.ForceDocking,
		Opacity:      cfg.Bar.Opacity,
		Background:   palette[figbar.DefaultBackground],
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := presenter.Close(); err != nil {
			logger.Warn("failed to close window", "err", err)
		}
	}()

	bar, err := figbar.New(presenter.Width(), presenter.Height(), set,
		barOptions(cfg, palette, logger.With("component", "bar"), session)...)
	if err != nil {
		return err
	}

	err = bar.Run(ctx, in, presenter)
	if errors.Is(err, context.Canceled) {
		logger.Info("shutting down", "lines", bar.Lines())
		return nil
	}
	return err
}

// loadFonts opens every configured font; on failure the fonts opened so far
// are closed again.
func loadFonts(cfg config.Config) (*fontset.Set, error) {
	fonts, err := fontset.LoadDir(cfg.FontDir, cfg.Fonts)
	if err != nil {
		return nil, err
	}
	set, err := fontset.NewSet(fonts, cfg.WidthCacheSize)
	if err != nil {
		for _, f := range fonts {
			_ = f.Close()
		}
		return nil, err
	}
	return set, nil
}

func barOptions(cfg config.Config, palette figbar.Palette, logger pslog.Logger, session *debug.Session) []figbar.Option {
	opts := []figbar.Option{
		figbar.WithPalette(palette),
		figbar.WithFallbackWidth(cfg.FallbackWidth),
		figbar.WithUnderline(cfg.Bar.UnderlineHeight, cfg.Bar.UnderlineBottom),
		figbar.WithPermanent(cfg.Bar.Permanent),
		figbar.WithLogger(logger),
	}
	if session != nil {
		opts = append(opts, figbar.WithDebug(session))
	}
	return opts
}

// openDebug starts a trace session when --debug, --debug-file or
// FIGBAR_DEBUG=1 asks for one. The returned func closes it.
func openDebug(cli cliFlags) (*debug.Session, func(), error) {
	if cli.debugMode || cli.debugFile != "" {
		debug.SetEnabled(true)
	} else {
		debug.InitFromEnv()
	}
	if !debug.Enabled() {
		return nil, func() {}, nil
	}

	var (
		output io.Writer = os.Stderr
		file   *os.File
	)
	if cli.debugFile != "" {
		f, err := os.Create(cli.debugFile)
		if err != nil {
			return nil, nil, fmt.Errorf("create debug file: %w", err)
		}
		file = f
		output = f
	}

	var sink debug.Sink
	if cli.debugPretty || debug.PrettyFromEnv() {
		sink = debug.NewPrettySink(output)
	} else {
		sink = debug.NewJSONSink(output)
	}

	session := debug.NewSession(sink)
	return session, func() {
		//nolint:errcheck // Debug sink errors are non-critical
		session.Close()
		if file != nil {
			file.Close()
		}
	}, nil
}

func printHelp() {
	fmt.Println("figbar - a minimal X11 status bar")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  producer | figbar [flags]")
	fmt.Println()
	fmt.Println("Flags:")
	pflag.PrintDefaults()
	fmt.Println()
	fmt.Println("Input escapes:")
	fmt.Println(`  \f0-\f9  foreground color (\f alone = default)`)
	fmt.Println(`  \b0-\b9  background color (\b alone = default)`)
	fmt.Println(`  \u0-\u9  underline color (\u alone = default)`)
	fmt.Println(`  \l \c \r align left, center or right`)
	fmt.Println(`  \\       literal backslash`)
	fmt.Println()
	fmt.Printf("Configuration is read from ./%s or %s;\n", config.DefaultConfigFileName, config.DefaultConfigPath())
	fmt.Println("FIGBAR_* environment variables override it, e.g. FIGBAR_BAR_HEIGHT=24.")
}
