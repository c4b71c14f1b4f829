package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/RustamTech/Medical-Request-System-Flow/internal/config"
	"github.com/RustamTech/Medical-Request-System-Flow/internal/service"
	"github.com/RustamTech/Medical-Request-System-Flow/internal/transport/web/v1/doctor"
	"github.com/RustamTech/Medical-Request-System-Flow/internal/transport/web/v1/document"
	"github.com/RustamTech/Medical-Request-System-Flow/internal/transport/web/v1/health"
	"github.com/RustamTech/Medical-Request-System-Flow/internal/transport/web/v1/patient"
	"github.com/RustamTech/Medical-Request-System-Flow/internal/transport/web/v1/request"
)

type Services struct {
	Documents    *service.DocumentService
	Associations *service.AssociationManager
	Requests     *service.RequestWorkflow
	Registry     *service.Registry
}

type Probes struct {
	DB      health.Pinger
	Cache   health.Pinger
	Storage health.Pinger
}

type Server struct {
	log    *log.Logger
	server *http.Server
	cfg    *config.Config
}

func New(logger *log.Logger, cfg *config.Config, svc Services, probes Probes) *Server {
	sub := func(name string) *log.Logger {
		return log.New(logger.Writer(), logger.Prefix()+"["+name+"] ", logger.Flags())
	}

	healthHandler := &health.Handler{Log: sub("health"), DB: probes.DB, Cache: probes.Cache, Storage: probes.Storage}
	documentHandler := &document.Handler{Log: sub("document"), Docs: svc.Documents}
	patientHandler := &patient.Handler{Log: sub("patient"), Registry: svc.Registry, Assoc: svc.Associations, Requests: svc.Requests}
	doctorHandler := &doctor.Handler{Log: sub("doctor"), Registry: svc.Registry, Requests: svc.Requests}
	requestHandler := &request.Handler{Log: sub("request"), Workflow: svc.Requests}

	srv := &http.Server{
		Addr:              cfg.AppPort,
		Handler:           newRouter(healthHandler, documentHandler, patientHandler, doctorHandler, requestHandler, logger),
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 2 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &Server{server: srv, cfg: cfg, log: logger}
}

func (ws *Server) Run() {
	ws.log.Printf("started on %s", ws.server.Addr)
	if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		ws.log.Fatalf("error: %v", err)
	}
}

func (ws *Server) Close(ctx context.Context) {
	if err := ws.server.Shutdown(ctx); err != nil {
		ws.log.Printf("forced to shutdown: %v", err)
	}
	ws.log.Println("exited gracefully")
}
