package factory

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/iulianpascalau/lmeasure-svc/commonGo"
	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/api"
	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/catalog"
	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/command"
	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/common"
	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/config"
	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/engine"
	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/runner"
	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/storage"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const inMemoryLedger = ":memory:"

var log = logger.GetOrCreate("factory")

type ledgerHandler interface {
	api.InvocationLedger
	engine.InvocationLedger
	CleanRetainedInvocations(ctx context.Context)
	CleanupInterval() time.Duration
	Close() error
}

type componentsHandler struct {
	catalog MetricCatalog
	ledger  ledgerHandler
	engine  ToolEngine
	server  Server
	cancel  context.CancelFunc
}

// NewComponentsHandler creates a new components handler
func NewComponentsHandler(serviceKeyApi string, cfg config.Config) (*componentsHandler, error) {
	err := cfg.CheckValidity()
	if err != nil {
		return nil, err
	}

	metricCatalog, err := createCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}

	builder, err := command.NewBuilder(metricCatalog)
	if err != nil {
		return nil, err
	}

	rules, err := createDiagnosticRules(cfg.DiagnosticRules)
	if err != nil {
		return nil, err
	}
	classifier, err := command.NewClassifier(rules...)
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.TimeoutInSeconds) * time.Second
	processRunner, err := runner.NewProcessRunner(runner.ArgsProcessRunner{
		ExecutablePath: cfg.ExecutablePath,
		Timeout:        timeout,
		TempDir:        cfg.TempDir,
		Builder:        builder,
	})
	if err != nil {
		return nil, err
	}

	ledgerPath := cfg.LedgerPath
	if len(ledgerPath) == 0 {
		ledgerPath = inMemoryLedger
	}
	ledger, err := storage.NewSQLiteLedger(ledgerPath, cfg.LedgerRetentionSeconds)
	if err != nil {
		return nil, err
	}

	toolEngine, err := engine.NewToolEngine(engine.ArgsToolEngine{
		Catalog:    metricCatalog,
		Runner:     processRunner,
		Classifier: classifier,
		Ledger:     ledger,
	})
	if err != nil {
		_ = ledger.Close()
		return nil, err
	}

	server, err := api.NewServer(api.ArgsWebServer{
		ServiceKeyApi:            serviceKeyApi,
		ListenAddress:            cfg.ListenAddress,
		MaxConcurrentInvocations: cfg.MaxConcurrentInvocations,
		SlotWaitTimeout:          timeout,
		Engine:                   toolEngine,
		Catalog:                  metricCatalog,
		Ledger:                   ledger,
		GeneralHandler:           api.CORSMiddleware,
	})
	if err != nil {
		_ = ledger.Close()
		return nil, err
	}

	return &componentsHandler{
		catalog: metricCatalog,
		ledger:  ledger,
		engine:  toolEngine,
		server:  server,
	}, nil
}

func createCatalog(catalogFile string) (MetricCatalog, error) {
	if len(catalogFile) == 0 {
		return catalog.Default(), nil
	}

	log.Info("loading metric catalog", "file", catalogFile)

	c, err := catalog.LoadCatalogFile(catalogFile)
	if err != nil {
		return nil, err
	}

	return c, nil
}

func createDiagnosticRules(rulesConfig []config.DiagnosticRuleConfig) ([]command.DiagnosticRule, error) {
	rules := make([]command.DiagnosticRule, 0, len(rulesConfig))
	for i, rc := range rulesConfig {
		pattern, err := regexp.Compile(rc.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w in diagnostic rule %d", err, i)
		}

		kind := rc.Kind
		if len(kind) == 0 {
			kind = common.ErrorKind(common.ErrToolFailure)
		}
		ruleErr, found := common.ErrorForKind(kind)
		if !found || (ruleErr != common.ErrToolFailure && ruleErr != common.ErrUnsupportedFormat) {
			return nil, fmt.Errorf("diagnostic rule %d has an unsupported kind '%s'", i, rc.Kind)
		}

		rules = append(rules, command.DiagnosticRule{
			Pattern: pattern,
			Err:     ruleErr,
			Message: rc.Message,
		})
	}

	return rules, nil
}

// GetCatalog returns the metric catalog
func (ch *componentsHandler) GetCatalog() MetricCatalog {
	return ch.catalog
}

// GetEngine returns the tool engine
func (ch *componentsHandler) GetEngine() ToolEngine {
	return ch.engine
}

// GetServer returns the server component
func (ch *componentsHandler) GetServer() Server {
	return ch.server
}

// Start starts the inner components
func (ch *componentsHandler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	ch.cancel = cancel

	commonGo.CronJobStarter(ctx, ch.ledger.CleanRetainedInvocations, ch.ledger.CleanupInterval())
	ch.server.Start()
}

// Close closes the inner components
func (ch *componentsHandler) Close() {
	if ch.cancel != nil {
		ch.cancel()
	}

	err := ch.server.Close()
	if err != nil {
		log.Warn("failed to close the server", "error", err)
	}
	err = ch.ledger.Close()
	if err != nil {
		log.Warn("failed to close the invocation ledger", "error", err)
	}
}
