package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
	"golang.org/x/term"

	"github.com/procon-emu/procon/internal/config"
	"github.com/procon-emu/procon/internal/configpaths"
	"github.com/procon-emu/procon/internal/log"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run parses args and executes the selected command. Log and raw dump files
// are closed before it returns, including when the command fails.
func run(args []string) int {
	userCfg := findUserConfig(args)
	jsonPaths, yamlPaths, tomlPaths := configpaths.ConfigCandidatePaths(userCfg)

	var cli config.CLI
	parser, err := kong.New(&cli,
		kong.Name("procon"),
		kong.Description(Description()),
		kong.UsageOnError(),
		kong.Vars{"version": versionString()},
		kong.ConfigureHelp(kong.HelpOptions{Compact: true, WrapUpperBound: helpWidth()}),
		// Load configuration from JSON/YAML/TOML in priority order; flags/env override config values.
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "procon: error:", err)
		return 2
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "procon: error:", err)
		if ctx != nil {
			_ = ctx.PrintUsage(true)
		}
		return 2
	}

	logger, closeFiles, err := log.SetupLogger(cli.Log.Level, cli.Log.File)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to setup logger:", err)
		return 2
	}
	defer func() {
		for _, c := range closeFiles {
			_ = c.Close()
		}
	}()

	rawLogger := setupRawLogger(&cli, logger, &closeFiles)

	ctx.Bind(logger)
	ctx.BindTo(rawLogger, (*log.RawLogger)(nil))

	if err := ctx.Run(); err != nil {
		logger.Error("command failed", "command", ctx.Command(), "error", err)
		return 1
	}
	return 0
}

func findUserConfig(args []string) string {
	for i, a := range args {
		if strings.HasPrefix(a, "--config=") {
			return a[len("--config="):]
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return os.Getenv("PROCON_CONFIG")
}

func setupRawLogger(cli *config.CLI, logger *slog.Logger, closeFiles *[]io.Closer) log.RawLogger {
	if cli.Log.RawFile != "" {
		f, err := os.OpenFile(cli.Log.RawFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			logger.Error("failed to open raw log file", "file", cli.Log.RawFile, "error", err)
			return log.NewRaw(nil)
		}
		*closeFiles = append(*closeFiles, f)
		return log.NewRaw(f)
	}
	if log.ParseLevel(cli.Log.Level) <= log.LevelTrace {
		return log.NewRaw(os.Stderr)
	}
	return log.NewRaw(nil)
}

// helpWidth caps help wrapping to the terminal width; 0 lets kong decide.
func helpWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return 0
	}
	return width
}
