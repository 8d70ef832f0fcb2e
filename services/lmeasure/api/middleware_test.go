package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/common"
	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/testsCommon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCORSMiddleware(t *testing.T) {
	t.Parallel()

	args := createArgs()
	args.GeneralHandler = CORSMiddleware
	serv := createServer(t, args)
	handler := serv.generalHandler(serv.router)

	t.Run("preflight is answered directly", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodOptions, "/api/lmeasure", nil)
		req.Header.Set("Origin", "http://example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Body.String())
	})
	t.Run("plain options reach the description", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodOptions, "/api/lmeasure", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "POST,OPTIONS", w.Header().Get("Allow"))
	})
}

func TestInvocationSlots(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	args := createArgs()
	args.MaxConcurrentInvocations = 1
	args.SlotWaitTimeout = 100 * time.Millisecond
	args.Engine = &testsCommon.ToolEngineStub{
		ConvertHandler: func(ctx context.Context, data string) (string, error) {
			started <- struct{}{}
			<-release
			return data, nil
		},
	}
	serv := createServer(t, args)

	wg := sync.WaitGroup{}
	wg.Add(1)
	var first *httptest.ResponseRecorder
	go func() {
		defer wg.Done()
		first = doRequest(serv, http.MethodPost, "/api/convert", "application/json", `{"data":"abc"}`)
	}()
	<-started

	w := doRequest(serv, http.MethodPost, "/api/convert", "application/json", `{"data":"abc"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doRequest(serv, http.MethodGet, "/api/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	close(release)
	wg.Wait()
	require.Equal(t, http.StatusOK, first.Code)

	args.Engine.(*testsCommon.ToolEngineStub).ConvertHandler = func(ctx context.Context, data string) (string, error) {
		return "", common.ErrExecutionTimeout
	}
	w = doRequest(serv, http.MethodPost, "/api/convert", "application/json", `{"data":"abc"}`)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}
