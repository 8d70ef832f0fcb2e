package commonGo

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachFileLogger(t *testing.T) {
	t.Parallel()

	log := logger.GetOrCreate("test")

	t.Run("no log file requested", func(t *testing.T) {
		handler, err := AttachFileLogger(log, ArgsFileLogger{})
		assert.Nil(t, err)
		assert.Nil(t, handler)
	})
	t.Run("log file is created in the working directory", func(t *testing.T) {
		dir := t.TempDir()
		handler, err := AttachFileLogger(log, ArgsFileLogger{
			DefaultLogsPath: "logs",
			LogFilePrefix:   "lmeasure",
			WorkingDir:      dir,
			SaveLogFile:     true,
			LifeSpan:        time.Hour,
			LifeSpanInMB:    10,
		})
		require.Nil(t, err)
		require.NotNil(t, handler)
		assert.False(t, handler.IsInterfaceNil())

		entries, err := os.ReadDir(filepath.Join(dir, "logs"))
		require.Nil(t, err)
		assert.NotEmpty(t, entries)
		assert.Nil(t, handler.Close())
	})
}

// env tests mutate the process environment, they do not run in parallel
func TestReadEnvFile(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		m := map[string]string{"LMEASURE_TEST_KEY": ""}
		err := ReadEnvFile(filepath.Join(t.TempDir(), ".env"), m)
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})
	t.Run("missing key", func(t *testing.T) {
		envFile := filepath.Join(t.TempDir(), ".env")
		require.Nil(t, os.WriteFile(envFile, []byte("OTHER_KEY=1\n"), 0600))

		m := map[string]string{"LMEASURE_TEST_ABSENT_KEY": ""}
		err := ReadEnvFile(envFile, m)
		assert.ErrorContains(t, err, "LMEASURE_TEST_ABSENT_KEY is not set in the .env file")
	})
	t.Run("should work", func(t *testing.T) {
		envFile := filepath.Join(t.TempDir(), ".env")
		require.Nil(t, os.WriteFile(envFile, []byte("LMEASURE_TEST_KEY=secret\n"), 0600))
		defer func() {
			_ = os.Unsetenv("LMEASURE_TEST_KEY")
		}()

		m := map[string]string{"LMEASURE_TEST_KEY": ""}
		err := ReadEnvFile(envFile, m)
		assert.Nil(t, err)
		assert.Equal(t, "secret", m["LMEASURE_TEST_KEY"])
	})
}

func TestCronJobStarter(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := atomic.Int32{}
	CronJobStarter(ctx, func(ctx context.Context) {
		calls.Add(1)
	}, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return calls.Load() >= 3
	}, time.Second*5, time.Millisecond*5)

	cancel()
	time.Sleep(50 * time.Millisecond)
	stopped := calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, calls.Load())
}
