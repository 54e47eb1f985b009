package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"jabroni/internal/interp"
	"jabroni/internal/repl"
	"jabroni/internal/stdlib"
	"jabroni/internal/util"
)

var (
	// Version is stamped at build time.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"

	help    bool
	version bool
	// logging
	logLevel string
	logFile  string
	// config
	configFile string
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	// log config
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
	// config file
	flag.StringVar(&configFile, "config", "", "Path to a TOML config file")
}

func main() {
	flag.Parse()

	if version {
		printVersion()
		return
	}
	if help {
		printHelp()
		return
	}

	config := util.Configuration{
		Version:   Version,
		BuildDate: BuildDate,
		Commit:    Commit,
	}

	path := configFile
	explicit := path != ""
	if !explicit {
		path = util.DefaultConfigFile
	}
	if err := util.LoadConfiguration(path, explicit, &config); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config '%s': %v\n", path, err)
		os.Exit(1)
	}

	// Flags override the config file.
	if logLevel != "" {
		config.LogLevel = logLevel
	}
	if logFile != "" {
		config.LogFile = logFile
	}

	loggerOptions := &slog.HandlerOptions{
		AddSource: false,
		Level:     logLevelFromString(config.LogLevel),
	}
	logWriter := configureLogWriter(config.LogFile)
	defaultLogger := slog.New(slog.NewJSONHandler(logWriter, loggerOptions))
	slog.SetDefault(defaultLogger)

	ip := interp.New()
	if err := stdlib.Install(ip, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "failed to install host natives: %v\n", err)
		os.Exit(1)
	}

	if fileName := flag.Arg(0); fileName != "" {
		runFile(ip, fileName)
		return
	}

	fmt.Printf("jabroni v%s\n", Version)
	repl.Start(ip, config.HistoryFile)
}

func runFile(ip *interp.Interp, fileName string) {
	src, err := os.ReadFile(fileName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read '%s': %v\n", fileName, err)
		os.Exit(1)
	}
	if _, err := ip.RunScript(string(src)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func configureLogWriter(logFile string) *os.File {
	if logFile == "" {
		return os.Stderr
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory for '%s': %v; falling back to stderr\n", logFile, err)
		return os.Stderr
	}
	logWriter, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file '%s': %v; falling back to stderr\n", logFile, err)
		return os.Stderr
	}
	return logWriter
}

func printVersion() {
	fmt.Printf("jabroni version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: jabroni [options] [filename]

Options:
  -config <path>     Path to a TOML config file. Default is './jabroni.toml' if present.
  -help              Display this help information and exit.
  -version           Display version information and exit.
  -log-level <level> Set the log level: debug, info, warn, error.
  -log-file <path>   Specify a log file to write logs. Default is stderr.

Details:
With a filename, runs it as a jabroni script and exits non-zero on the first
error. Without one, starts an interactive session where each line is
evaluated as an expression.

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, Version, BuildDate, Commit)
}

func logLevelFromString(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelError
	}
}
