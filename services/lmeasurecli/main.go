package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/catalog"
	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/command"
	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/common"
	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/engine"
	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/runner"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/urfave/cli"
)

// appVersion should be populated at build time using ldflags
var appVersion = "undefined"

var (
	log = logger.GetOrCreate("lmeasurecli")

	logLevel = cli.StringFlag{
		Name:  "log-level",
		Usage: "This flag specifies the logger `level(s)`.",
		Value: "*:" + logger.LogWarning.String(),
	}
	executable = cli.StringFlag{
		Name:   "executable",
		Usage:  "The `filepath` of the L-Measure executable.",
		EnvVar: "LMEASURE_EXECUTABLE",
	}
	timeoutInSeconds = cli.UintFlag{
		Name:  "timeout",
		Usage: "The number of `seconds` the tool may run before being killed.",
		Value: 15,
	}
	catalogFile = cli.StringFlag{
		Name:  "catalog",
		Usage: "Optional `filepath` of a TOML file replacing the built-in metric catalog.",
	}
	allMetrics = cli.BoolFlag{
		Name:  "all",
		Usage: "Compute every metric of the catalog.",
	}
	showVersion = cli.BoolFlag{
		Name:  "version",
		Usage: "Print the L-Measure release and exit.",
	}
	convert = cli.BoolFlag{
		Name:  "convert",
		Usage: "Print the reconstruction converted to SWC instead of computing metrics.",
	}
	listMetrics = cli.BoolFlag{
		Name:  "list",
		Usage: "Print the metric catalog and exit.",
	}
)

type toolEngine interface {
	Measure(ctx context.Context, payload string, names []string) ([]common.MetricRecord, error)
	Convert(ctx context.Context, payload string) (string, error)
	Version(ctx context.Context) (string, error)
}

type metricCatalog interface {
	Resolve(name string) (common.MetricDescriptor, error)
	AllNames() []string
	Descriptors() []common.MetricDescriptor
	IsInterfaceNil() bool
}

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "app-version",
		Usage: "print the lmeasurecli version",
	}

	app := cli.NewApp()
	app.Name = "lmeasurecli"
	app.Version = fmt.Sprintf("%s/%s/%s-%s", appVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	app.Usage = "Computes morphometrics on the reconstruction read from stdin"
	app.ArgsUsage = "[metric names...]"
	app.Flags = []cli.Flag{
		logLevel,
		executable,
		timeoutInSeconds,
		catalogFile,
		allMetrics,
		showVersion,
		convert,
		listMetrics,
	}
	app.Action = run

	err := app.Run(os.Args)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	err := logger.SetLogLevel(ctx.GlobalString(logLevel.Name))
	if err != nil {
		return err
	}

	metrics, err := loadCatalog(ctx.GlobalString(catalogFile.Name))
	if err != nil {
		return err
	}

	if ctx.GlobalBool(listMetrics.Name) {
		return printJSONLines(os.Stdout, metrics.Descriptors())
	}

	e, err := createEngine(ctx, metrics)
	if err != nil {
		return err
	}

	background := context.Background()
	if ctx.GlobalBool(showVersion.Name) {
		version, errVersion := e.Version(background)
		if errVersion != nil {
			return errVersion
		}

		_, err = fmt.Fprintln(os.Stdout, version)
		return err
	}

	payload, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("%w while reading the reconstruction from stdin", err)
	}

	if ctx.GlobalBool(convert.Name) {
		converted, errConvert := e.Convert(background, string(payload))
		if errConvert != nil {
			return errConvert
		}

		_, err = fmt.Fprint(os.Stdout, converted)
		return err
	}

	names := []string(ctx.Args())
	if ctx.GlobalBool(allMetrics.Name) {
		names = metrics.AllNames()
	}
	if len(names) == 0 {
		return errors.New("no metric requested, provide metric names or --all")
	}

	records, err := e.Measure(background, string(payload), names)
	if err != nil {
		return err
	}

	log.Debug("measured", "records", len(records))

	return printJSONLines(os.Stdout, records)
}

func loadCatalog(path string) (metricCatalog, error) {
	if len(path) == 0 {
		return catalog.Default(), nil
	}

	c, err := catalog.LoadCatalogFile(path)
	if err != nil {
		return nil, err
	}

	return c, nil
}

func createEngine(ctx *cli.Context, metrics metricCatalog) (toolEngine, error) {
	exe := ctx.GlobalString(executable.Name)
	if len(exe) == 0 {
		return nil, errors.New("the L-Measure executable is not set, use --executable or LMEASURE_EXECUTABLE")
	}

	builder, err := command.NewBuilder(metrics)
	if err != nil {
		return nil, err
	}
	classifier, err := command.NewClassifier()
	if err != nil {
		return nil, err
	}

	r, err := runner.NewProcessRunner(runner.ArgsProcessRunner{
		ExecutablePath: exe,
		Timeout:        time.Duration(ctx.GlobalUint(timeoutInSeconds.Name)) * time.Second,
		Builder:        builder,
	})
	if err != nil {
		return nil, err
	}

	return engine.NewToolEngine(engine.ArgsToolEngine{
		Catalog:    metrics,
		Runner:     r,
		Classifier: classifier,
	})
}

func printJSONLines[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, item := range items {
		err := enc.Encode(item)
		if err != nil {
			return err
		}
	}

	return nil
}
