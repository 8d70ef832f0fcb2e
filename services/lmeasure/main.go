package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/iulianpascalau/lmeasure-svc/commonGo"
	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/config"
	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/factory"
	"github.com/multiversx/mx-chain-core-go/core"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/urfave/cli"
)

const (
	defaultLogsPath      = "logs"
	logFilePrefix        = "lmeasure"
	logFileLifeSpanInSec = 86400 // 24h
	logFileLifeSpanInMB  = 1024  // 1GB
	envFile              = ".env"
	envServiceKey        = "SERVICE_KEY"
	startupProbeTimeout  = time.Minute
)

// appVersion should be populated at build time using ldflags
// Usage examples:
// Linux/macOS:
//
//	go build -v -ldflags="-X main.appVersion=$(git describe --all | cut -c7-32)
var appVersion = "undefined"
var fileLogging commonGo.FileLoggingHandler

var (
	serviceHelpTemplate = `NAME:
   {{.Name}} - {{.Usage}}
USAGE:
   {{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}
   {{if len .Authors}}
AUTHOR:
   {{range .Authors}}{{ . }}{{end}}
   {{end}}{{if .Commands}}
GLOBAL OPTIONS:
   {{range .VisibleFlags}}{{.}}
   {{end}}
VERSION:
   {{.Version}}
   {{end}}
`

	log = logger.GetOrCreate("main")

	// logLevel defines the logger level
	logLevel = cli.StringFlag{
		Name: "log-level",
		Usage: "This flag specifies the logger `level(s)`. It can contain multiple comma-separated value. For example" +
			", if set to *:INFO the logs for all packages will have the INFO level. However, if set to *:INFO,api:DEBUG" +
			" the logs for all packages will have the INFO level, excepting the api package which will receive a DEBUG" +
			" log level.",
		Value: "*:" + logger.LogInfo.String(),
	}
	// logSaveFile is used when the log output needs to be logged in a file
	logSaveFile = cli.BoolFlag{
		Name:  "log-save",
		Usage: "Boolean option for enabling log saving. If set, it will automatically save all the logs into a file.",
	}
	// workingDirectory defines a flag for the path for the working directory.
	workingDirectory = cli.StringFlag{
		Name:  "working-directory",
		Usage: "This flag specifies the `directory` where the service will look for its .env file and store logs.",
		Value: "",
	}
	// configurationFile defines a flag for the path to the main toml configuration file
	configurationFile = cli.StringFlag{
		Name:  "config",
		Usage: "The `filepath` for the main configuration file.",
		Value: "./config.toml",
	}
	// checkCatalog makes the service verify its metric catalog against the tool before serving
	checkCatalog = cli.BoolFlag{
		Name:  "check-catalog",
		Usage: "Boolean option for measuring every catalog metric on a bundled reconstruction at startup and refusing to start on a mismatch.",
	}

	envFileContents = map[string]string{
		envServiceKey: "",
	}
)

func main() {
	app := cli.NewApp()
	cli.AppHelpTemplate = serviceHelpTemplate
	app.Name = "L-Measure service"
	app.Version = fmt.Sprintf("%s/%s/%s-%s", appVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	app.Usage = "This is the entry point for starting a new HTTP service computing morphometrics with the L-Measure tool"
	app.Flags = []cli.Flag{
		logLevel,
		logSaveFile,
		workingDirectory,
		configurationFile,
		checkCatalog,
	}
	app.Authors = []cli.Author{
		{
			Name:  "Iulian Pascalau",
			Email: "iulian.pascalau@gmail.com",
		},
	}

	app.Action = run

	defer func() {
		if fileLogging != nil {
			_ = fileLogging.Close()
		}
	}()

	err := app.Run(os.Args)
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	workingDir := ctx.GlobalString(workingDirectory.Name)

	err := logger.SetLogLevel(ctx.GlobalString(logLevel.Name))
	if err != nil {
		return err
	}

	fileLogging, err = commonGo.AttachFileLogger(log, commonGo.ArgsFileLogger{
		DefaultLogsPath: defaultLogsPath,
		LogFilePrefix:   logFilePrefix,
		WorkingDir:      workingDir,
		SaveLogFile:     ctx.GlobalBool(logSaveFile.Name),
		LifeSpan:        time.Second * time.Duration(logFileLifeSpanInSec),
		LifeSpanInMB:    uint64(logFileLifeSpanInMB),
	})
	if err != nil {
		return err
	}

	log.Info("Starting L-Measure service", "version", appVersion, "pid", os.Getpid())

	err = commonGo.ReadEnvFile(filepath.Join(workingDir, envFile), envFileContents)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("no .env file found, the stats endpoint will reject every request", "error", err)
		err = nil
	}
	if err != nil {
		return err
	}

	cfg, err := loadConfig(ctx.GlobalString(configurationFile.Name))
	if err != nil {
		return err
	}

	components, err := factory.NewComponentsHandler(envFileContents[envServiceKey], cfg)
	if err != nil {
		return err
	}
	defer components.Close()

	probeCtx, cancel := context.WithTimeout(context.Background(), startupProbeTimeout)
	defer cancel()

	toolVersion, err := components.GetEngine().Version(probeCtx)
	if err != nil {
		log.Warn("unable to read the L-Measure version", "executable", cfg.ExecutablePath, "error", err)
	} else {
		log.Info("found L-Measure", "executable", cfg.ExecutablePath, "release", toolVersion)
	}

	if ctx.GlobalBool(checkCatalog.Name) {
		err = components.GetEngine().CheckCatalog(probeCtx)
		if err != nil {
			return err
		}
	}

	components.Start()

	log.Info("L-Measure service started", "address", components.GetServer().Address(),
		"metrics", len(components.GetCatalog().AllNames()))

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	<-sigs

	log.Info("Application closing, calling Close on all subcomponents...")

	return nil
}

func loadConfig(filepath string) (config.Config, error) {
	cfg := config.Config{}
	err := core.LoadTomlFile(&cfg, filepath)
	if err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}
