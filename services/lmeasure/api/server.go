package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"golang.org/x/sync/semaphore"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 1000
	allowedMethods     = "POST,OPTIONS"
)

var log = logger.GetOrCreate("api")

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// formats accepted by the tool, it validates the payload itself
var supportedFormats = []string{"SWC", "Neurolucida V3", "Amaral", "Claiborne", "Eutectic", "Amira"}

type server struct {
	router         *gin.Engine
	httpServer     *http.Server
	engine         ToolEngine
	catalog        MetricCatalog
	ledger         InvocationLedger
	serviceKey     string
	listenAddr     string
	slots          *semaphore.Weighted
	slotWait       time.Duration
	generalHandler func(http.Handler) http.Handler
	wg             sync.WaitGroup
}

// ArgsWebServer defines the web server arguments
type ArgsWebServer struct {
	ServiceKeyApi            string
	ListenAddress            string
	MaxConcurrentInvocations int
	SlotWaitTimeout          time.Duration
	Engine                   ToolEngine
	Catalog                  MetricCatalog
	Ledger                   InvocationLedger
	GeneralHandler           func(http.Handler) http.Handler
}

// NewServer initializes the Gin engine and mounts all routes
func NewServer(args ArgsWebServer) (*server, error) {
	if check.IfNil(args.Engine) {
		return nil, errors.New("nil tool engine")
	}
	if check.IfNil(args.Catalog) {
		return nil, errors.New("nil catalog")
	}
	if check.IfNil(args.Ledger) {
		return nil, errors.New("nil invocation ledger")
	}
	if args.GeneralHandler == nil {
		return nil, errors.New("nil http handler")
	}
	if args.MaxConcurrentInvocations <= 0 {
		return nil, fmt.Errorf("invalid maximum concurrent invocations: %d", args.MaxConcurrentInvocations)
	}
	if args.SlotWaitTimeout <= 0 {
		return nil, fmt.Errorf("invalid slot wait timeout: %v", args.SlotWaitTimeout)
	}

	router := gin.New()

	router.Use(gin.Recovery())

	s := &server{
		router:         router,
		engine:         args.Engine,
		catalog:        args.Catalog,
		ledger:         args.Ledger,
		serviceKey:     args.ServiceKeyApi,
		listenAddr:     args.ListenAddress,
		slots:          semaphore.NewWeighted(int64(args.MaxConcurrentInvocations)),
		slotWait:       args.SlotWaitTimeout,
		generalHandler: args.GeneralHandler,
	}

	s.setupRoutes()
	return s, nil
}

func (s *server) setupRoutes() {
	api := s.router.Group("/api")

	api.POST("/lmeasure", s.invocationSlot(), s.handleMeasure)
	api.OPTIONS("/lmeasure", s.handleMeasureOptions)
	api.POST("/convert", s.invocationSlot(), s.handleConvert)
	api.OPTIONS("/convert", s.handleConvertOptions)
	api.GET("/version", s.invocationSlot(), s.handleVersion)
	api.GET("/metrics", s.handleGetMetrics)
	api.GET("/stats", s.authAPIKey(), s.handleGetStats)

	// paths served by the first generation of the service, kept for its clients
	s.router.POST("/lmeasure/", s.invocationSlot(), s.handleMeasure)
	s.router.OPTIONS("/lmeasure/", s.handleMeasureOptions)
	s.router.POST("/convert/", s.invocationSlot(), s.handleConvert)
	s.router.OPTIONS("/convert/", s.handleConvertOptions)

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "api route not found"})
	})
}

// Start listens and serves connections
func (s *server) Start() {
	handler := s.generalHandler(s.router)

	s.httpServer = &http.Server{
		Addr:    s.listenAddr,
		Handler: handler,
	}

	ln, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		log.Error("failed to listen", "error", err)
		return
	}
	s.listenAddr = ln.Addr().String()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Info("starting HTTP server", "address", s.listenAddr)

		err := s.httpServer.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
		}
	}()
}

// Address returns the actual listen address
func (s *server) Address() string {
	return s.listenAddr
}

// Close gracefully stops the server
func (s *server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return err
		}
	}
	s.wg.Wait()

	return nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *server) IsInterfaceNil() bool {
	return s == nil
}

func (s *server) authAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-Api-Key")
		if len(s.serviceKey) == 0 || key != s.serviceKey {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// invocationSlot bounds the number of tool processes running at once
func (s *server) invocationSlot() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), s.slotWait)
		err := s.slots.Acquire(ctx, 1)
		cancel()
		if err != nil {
			log.Debug("no invocation slot available", "path", c.Request.URL.Path, "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "too many concurrent invocations"})
			c.Abort()
			return
		}
		defer s.slots.Release(1)

		c.Next()
	}
}

func (s *server) handleMeasure(c *gin.Context) {
	req, err := parseRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	names := req.metrics
	if !req.hasMetrics {
		names = s.catalog.AllNames()
	}
	unknown := s.firstUnknownMetric(names)
	if len(unknown) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("bad metric '%s' requested", unknown)})
		return
	}

	log.Debug("measure request", "sender", c.Request.RemoteAddr, "num metrics", len(names), "payload size", len(req.data))

	records, err := s.engine.Measure(c.Request.Context(), req.data, names)
	if err != nil {
		s.writeToolError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"error": nil, "measures": records})
}

func (s *server) firstUnknownMetric(names []string) string {
	known := make(map[string]struct{})
	for _, name := range s.catalog.AllNames() {
		known[name] = struct{}{}
	}

	for _, name := range names {
		_, found := known[name]
		if !found {
			return name
		}
	}

	return ""
}

func (s *server) handleConvert(c *gin.Context) {
	req, err := parseRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	converted, err := s.engine.Convert(c.Request.Context(), req.data)
	if err != nil {
		s.writeToolError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"error": nil, "data": converted})
}

func (s *server) handleVersion(c *gin.Context) {
	version, err := s.engine.Version(c.Request.Context())
	if err != nil {
		s.writeToolError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"error": nil, "version": version})
}

func (s *server) handleGetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"metrics": s.catalog.Descriptors()})
}

func (s *server) handleGetStats(c *gin.Context) {
	limit := defaultRecentLimit
	limitStr := c.Query("limit")
	if len(limitStr) > 0 {
		val, err := strconv.Atoi(limitStr)
		if err != nil || val < 0 || val > maxRecentLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = val
	}

	ctx := c.Request.Context()
	stats, err := s.ledger.GetOperationStats(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	recent, err := s.ledger.GetRecentInvocations(ctx, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats, "recent": recent})
}

func (s *server) handleMeasureOptions(c *gin.Context) {
	c.Header("Allow", allowedMethods)
	c.JSON(http.StatusOK, gin.H{
		"POST": gin.H{
			"description": "compute morphometrics from neural reconstructions",
			"parameters": gin.H{
				"data": payloadDescription(),
				"metrics": gin.H{
					"type":           "list",
					"description":    "list of metrics to calculate. If not supplied, calculates all",
					"allowed_values": s.catalog.AllNames(),
					"required":       false,
				},
			},
		},
	})
}

func (s *server) handleConvertOptions(c *gin.Context) {
	c.Header("Allow", allowedMethods)
	c.JSON(http.StatusOK, gin.H{
		"POST": gin.H{
			"description": "convert reconstruction data to SWC format",
			"parameters": gin.H{
				"data": payloadDescription(),
			},
		},
	})
}

func payloadDescription() gin.H {
	return gin.H{
		"type":        "string",
		"description": "ASCII-encoded reconstruction. Allowed formats: " + strings.Join(supportedFormats, ", "),
		"required":    true,
	}
}

func (s *server) writeToolError(c *gin.Context, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		log.Error("tool invocation failed", "path", c.Request.URL.Path, "kind", common.ErrorKind(err), "error", err)
	}

	if errors.Is(err, common.ErrUnknownMetric) {
		c.JSON(status, gin.H{"error": fmt.Sprintf("bad metric requested: %v", err)})
		return
	}

	c.JSON(status, gin.H{"error": fmt.Sprintf("l-measure failed: %v", err)})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, common.ErrUnknownMetric),
		errors.Is(err, common.ErrNoMetricsRequested),
		errors.Is(err, common.ErrEncoding),
		errors.Is(err, common.ErrUnsupportedFormat),
		errors.Is(err, common.ErrToolFailure),
		errors.Is(err, common.ErrNoConvertedOutput):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrExecutionTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
