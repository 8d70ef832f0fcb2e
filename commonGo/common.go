package commonGo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/multiversx/mx-chain-logger-go/file"
)

// ArgsFileLogger defines the arguments needed to attach a rotated log file
type ArgsFileLogger struct {
	DefaultLogsPath string
	LogFilePrefix   string
	WorkingDir      string
	SaveLogFile     bool
	LifeSpan        time.Duration
	LifeSpanInMB    uint64
}

// AttachFileLogger attaches, if required, a log file that is rotated after the configured life span.
// It returns a nil handler when no log file was requested
func AttachFileLogger(log logger.Logger, args ArgsFileLogger) (FileLoggingHandler, error) {
	err := logger.SetDisplayByteSlice(logger.ToHex)
	log.LogIfError(err)

	if !args.SaveLogFile {
		return nil, nil
	}

	logFile, err := file.NewFileLogging(file.ArgsFileLogging{
		WorkingDir:      args.WorkingDir,
		DefaultLogsPath: args.DefaultLogsPath,
		LogFilePrefix:   args.LogFilePrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("%w creating a log file", err)
	}

	err = logFile.ChangeFileLifeSpan(args.LifeSpan, args.LifeSpanInMB)
	if err != nil {
		_ = logFile.Close()
		return nil, err
	}

	return logFile, nil
}

// ReadEnvFile fills the provided map with the values found in the env file. A missing env file is
// reported as fs.ErrNotExist, a key without value as an error
func ReadEnvFile(envFile string, m map[string]string) error {
	err := godotenv.Load(envFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", fs.ErrNotExist, envFile)
		}
		return err
	}

	for k := range m {
		val := os.Getenv(k)
		if len(val) == 0 {
			return fmt.Errorf("%s is not set in the .env file", k)
		}

		m[k] = val
	}

	return nil
}

// CronJobStarter starts a go routine that calls the handler right away and then once every interval,
// until the context is done
func CronJobStarter(ctx context.Context, handler func(ctx context.Context), interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		handler(ctx)

		for {
			select {
			case <-ticker.C:
				handler(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}
