package common

import (
	"context"
	"net/http"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/wsa-2002/pd6-be-sub001/common/config"
	"github.com/wsa-2002/pd6-be-sub001/common/connectors/brokerconn"
	"github.com/wsa-2002/pd6-be-sub001/common/connectors/storageconn"
	"github.com/wsa-2002/pd6-be-sub001/common/db"
	"github.com/wsa-2002/pd6-be-sub001/common/metrics"
	"github.com/wsa-2002/pd6-be-sub001/lib/logger"
)

// JudgePlatform wires together everything the judge backend components
// share: config, http router, database, connectors and metrics. Components
// register their background loops via AddProcess; Run supervises them and
// shuts everything down gracefully on SIGINT/SIGTERM or a process panic.
type JudgePlatform struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB

	StorageConn *storageconn.Connector
	BrokerConn  *brokerconn.Connector

	Metrics *metrics.Collector

	processes []func()
	defers    []func()

	StopCtx  context.Context
	stopFunc context.CancelFunc
	stopWG   sync.WaitGroup
}

func InitJudgePlatform(configPath string) *JudgePlatform {
	p := &JudgePlatform{
		Config: config.ReadConfig(configPath),
	}
	logger.InitLogger(p.Config.Logger)

	p.Router = gin.Default()
	p.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var err error
	p.DB, err = db.NewDB(p.Config.DB)
	if err != nil {
		logger.Panic("Can not set up db connection, error: %s", err.Error())
	}

	p.StorageConn = storageconn.NewConnector(p.Config.StorageConnection)

	p.BrokerConn = brokerconn.NewConnector(p.Config.Broker)
	if err = p.BrokerConn.Open(); err != nil {
		logger.Panic("Can not set up broker connection, error: %s", err.Error())
	}
	p.AddDefer(func() {
		if err := p.BrokerConn.Close(); err != nil {
			logger.Error("Can not close broker connection, error: %s", err.Error())
		}
	})

	p.Metrics = metrics.NewCollector()

	return p
}

func (p *JudgePlatform) AddProcess(f func()) {
	p.processes = append(p.processes, f)
}

func (p *JudgePlatform) AddDefer(f func()) {
	p.defers = append(p.defers, f)
}

func (p *JudgePlatform) Run() {
	var ctx context.Context
	var cancel context.CancelFunc
	ctx, p.stopFunc = context.WithCancel(context.Background())
	p.StopCtx, cancel = signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	for _, process := range p.processes {
		p.Go(process)
	}

	p.runServer()

	p.stopWG.Wait()

	for _, d := range p.defers {
		d()
	}
}

func (p *JudgePlatform) runServer() {
	addr := ":" + strconv.Itoa(p.Config.Port)
	if p.Config.Host != nil {
		addr = *p.Config.Host + addr
	}
	logger.Info("Starting server at " + addr)
	server := http.Server{
		Addr:    addr,
		Handler: p.Router,
	}
	go func() {
		<-p.StopCtx.Done()
		logger.Info("Shutting down server")
		server.Shutdown(context.Background())
	}()
	server.ListenAndServe()
}

func (p *JudgePlatform) Go(f func()) {
	p.stopWG.Add(1)
	go p.runProcess(f)
}

func (p *JudgePlatform) runProcess(f func()) {
	defer func() {
		v := recover()
		if v != nil {
			logger.Error("One process got panic, shutting down all processes gracefully: %v", v)
			p.stopFunc()
		}
		p.stopWG.Done()
	}()

	f()
}
