package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/command"
	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const (
	inputFilePrefix = "lmeasure-"
	inputFileSuffix = ".txt"

	// bound on draining the pipes once the process was killed or exited
	waitDelay = time.Second
)

var log = logger.GetOrCreate("runner")

// ArgsProcessRunner defines the process runner arguments
type ArgsProcessRunner struct {
	ExecutablePath string
	Timeout        time.Duration
	TempDir        string
	Builder        CommandBuilder
}

type processRunner struct {
	executablePath string
	timeout        time.Duration
	tempDir        string
	builder        CommandBuilder
}

// NewProcessRunner creates a runner spawning one tool process per invocation
func NewProcessRunner(args ArgsProcessRunner) (*processRunner, error) {
	if len(strings.TrimSpace(args.ExecutablePath)) == 0 {
		return nil, errors.New("empty executable path")
	}
	if args.Timeout <= 0 {
		return nil, fmt.Errorf("invalid timeout %v", args.Timeout)
	}
	if check.IfNil(args.Builder) {
		return nil, errors.New("nil command builder")
	}

	tempDir := args.TempDir
	if len(tempDir) == 0 {
		tempDir = os.TempDir()
	}

	return &processRunner{
		executablePath: args.ExecutablePath,
		timeout:        args.Timeout,
		tempDir:        tempDir,
		builder:        args.Builder,
	}, nil
}

// Measure runs the tool computing the provided metrics on the payload and returns the captured streams.
// All validation happens before the payload is staged on disk.
func (r *processRunner) Measure(ctx context.Context, payload string, names []string) (common.ExecutionResult, error) {
	if len(names) == 0 {
		return common.ExecutionResult{}, common.ErrNoMetricsRequested
	}
	err := checkASCII(payload)
	if err != nil {
		return common.ExecutionResult{}, err
	}

	inputPath := r.newInputPath()
	args, err := r.builder.Build(inputPath, names)
	if err != nil {
		return common.ExecutionResult{}, err
	}

	err = stageInput(inputPath, payload)
	if err != nil {
		return common.ExecutionResult{}, err
	}
	defer removeFile(inputPath)

	return r.run(ctx, args)
}

// Convert runs the tool in conversion mode and reads back the file it writes next to the input
func (r *processRunner) Convert(ctx context.Context, payload string) (common.ConversionResult, error) {
	err := checkASCII(payload)
	if err != nil {
		return common.ConversionResult{}, err
	}

	inputPath := r.newInputPath()
	outputPath := inputPath + command.ConvertedSuffix

	err = stageInput(inputPath, payload)
	if err != nil {
		return common.ConversionResult{}, err
	}
	defer removeFile(inputPath)
	defer removeFile(outputPath)

	execution, err := r.run(ctx, r.builder.BuildConvert(inputPath))
	if err != nil {
		return common.ConversionResult{Execution: execution}, err
	}

	converted, err := os.ReadFile(outputPath)
	if errors.Is(err, fs.ErrNotExist) {
		return common.ConversionResult{Execution: execution}, nil
	}
	if err != nil {
		return common.ConversionResult{Execution: execution}, fmt.Errorf("failed to read converted file: %w", err)
	}

	return common.ConversionResult{
		Execution: execution,
		Converted: converted,
		Produced:  true,
	}, nil
}

// Banner runs the tool without arguments so it prints its banner and exits
func (r *processRunner) Banner(ctx context.Context) (common.ExecutionResult, error) {
	return r.run(ctx, nil)
}

func (r *processRunner) run(ctx context.Context, args []string) (common.ExecutionResult, error) {
	// only the timeout may cancel a started invocation
	execCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(execCtx, r.executablePath, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	log.Debug("executing", "command", r.executablePath, "args", strings.Join(args, " "))

	start := time.Now()
	err := cmd.Start()
	if err != nil {
		return common.ExecutionResult{Outcome: common.OutcomeSpawnFailed},
			fmt.Errorf("%w %s: %v", common.ErrSpawnFailure, r.executablePath, err)
	}

	waitErr := cmd.Wait()
	duration := time.Since(start)
	if waitErr != nil && execCtx.Err() != nil {
		log.Debug("command timed out", "command", r.executablePath, "timeout", r.timeout,
			"discarded stdout", stdout.Len(), "discarded stderr", stderr.Len())

		return common.ExecutionResult{
			Outcome:  common.OutcomeTimedOut,
			ExitCode: -1,
			Duration: duration,
		}, fmt.Errorf("%w after %v", common.ErrExecutionTimeout, r.timeout)
	}

	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) && !errors.Is(waitErr, exec.ErrWaitDelay) {
			return common.ExecutionResult{Outcome: common.OutcomeExited, ExitCode: exitCode, Duration: duration},
				fmt.Errorf("failed waiting for command: %w", waitErr)
		}

		// the tool does not use exit codes to report failures
		log.Trace("command exited with error", "exit code", exitCode, "error", waitErr)
	}

	return common.ExecutionResult{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Outcome:  common.OutcomeExited,
		ExitCode: exitCode,
		Duration: duration,
	}, nil
}

func (r *processRunner) newInputPath() string {
	return filepath.Join(r.tempDir, inputFilePrefix+uuid.NewString()+inputFileSuffix)
}

func checkASCII(payload string) error {
	for i := 0; i < len(payload); i++ {
		if payload[i] >= utf8.RuneSelf {
			return fmt.Errorf("%w: %v", common.ErrEncoding, errNonASCII(i))
		}
	}

	return nil
}

func stageInput(path string, payload string) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("failed to create input file: %w", err)
	}

	_, err = file.WriteString(payload)
	if err != nil {
		_ = file.Close()
		removeFile(path)
		return fmt.Errorf("failed to write input file: %w", err)
	}

	err = file.Close()
	if err != nil {
		removeFile(path)
		return fmt.Errorf("failed to close input file: %w", err)
	}

	return nil
}

func removeFile(path string) {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("failed to remove temporary file", "path", path, "error", err)
	}
}

// IsInterfaceNil returns true if the value under the interface is nil
func (r *processRunner) IsInterfaceNil() bool {
	return r == nil
}
