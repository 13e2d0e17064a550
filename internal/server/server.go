package server

import (
	"context"
	"net/http"
	"time"

	"github.com/fieldops/metas/internal/cache"
	"github.com/fieldops/metas/internal/clock"
	"github.com/fieldops/metas/internal/config"
	"github.com/fieldops/metas/internal/pending"
	"github.com/fieldops/metas/internal/remote"
	remotedomain "github.com/fieldops/metas/internal/remote/domain"
	"github.com/fieldops/metas/internal/report"
	reportdomain "github.com/fieldops/metas/internal/report/domain"
	"github.com/fieldops/metas/internal/submission"
	submissiondomain "github.com/fieldops/metas/internal/submission/domain"
	"github.com/fieldops/metas/internal/syncer"
	syncerdomain "github.com/fieldops/metas/internal/syncer/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	remote.Module,
	pending.Module,
	cache.Module,
	clock.Module,
	submission.Module,
	syncer.Module,
	report.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(RegisterRoutes),
	fx.Invoke(RunHTTP),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(PrincipalMiddleware())
	r.Use(ErrorHandlingMiddleware())
	return r
}

type ServerParam struct {
	fx.In

	Engine   *gin.Engine
	Log      *zap.Logger
	Config   config.Config
	Queue    pending.Queue
	Registry *prometheus.Registry

	Store         remotedomain.Store
	SubmissionSvc submissiondomain.Service
	SyncEngine    syncerdomain.Engine
	ReportSvc     reportdomain.Service
	Clock         clock.Clock
}

type Server struct {
	engine *gin.Engine
	log    *zap.Logger
	cfg    config.Config

	queue    pending.Queue
	registry *prometheus.Registry

	store         remotedomain.Store
	submissionSvc submissiondomain.Service
	syncEngine    syncerdomain.Engine
	reportSvc     reportdomain.Service
	clock         clock.Clock
}

func NewServer(p ServerParam) *Server {
	return &Server{
		engine:   p.Engine,
		log:      p.Log.Named("http.server"),
		cfg:      p.Config,
		queue:    p.Queue,
		registry: p.Registry,

		store:         p.Store,
		submissionSvc: p.SubmissionSvc,
		syncEngine:    p.SyncEngine,
		reportSvc:     p.ReportSvc,
		clock:         p.Clock,
	}
}

func RegisterRoutes(s *Server) {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	v1 := s.engine.Group("/v1")
	v1.POST("/activities", s.SubmitActivity)
	v1.POST("/overtime", s.SubmitOvertime)
	v1.GET("/logs", s.ListLogs)
	v1.POST("/sync", s.TriggerSync)
	v1.GET("/report", s.PeriodReport)
	v1.POST("/signout", s.SignOut)
}

func RunHTTP(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				s.log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
