// Package server wires the combat runtime: the gRPC API, the notification
// feed, and the SQLite store behind them.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/skirmish/internal/platform/config"
	"github.com/louisbranch/skirmish/internal/platform/timeouts"
	combatv1 "github.com/louisbranch/skirmish/internal/services/combat/api/grpc/combat"
	"github.com/louisbranch/skirmish/internal/services/combat/api/grpc/interceptors"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/catalog"
	"github.com/louisbranch/skirmish/internal/services/combat/feed"
	"github.com/louisbranch/skirmish/internal/services/combat/match"
	combatsqlite "github.com/louisbranch/skirmish/internal/services/combat/storage/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

type serverEnv struct {
	DBPath      string `env:"SKIRMISH_COMBAT_DB_PATH"`
	FeedAddr    string `env:"SKIRMISH_COMBAT_FEED_ADDR" envDefault:":8091"`
	SightRadius int    `env:"SKIRMISH_COMBAT_SIGHT_RADIUS"`
}

func loadServerEnv() serverEnv {
	var cfg serverEnv
	_ = config.ParseEnv(&cfg)
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "combat.db")
	}
	return cfg
}

// Server hosts the combat gRPC API, the websocket feed, and storage lifecycle.
type Server struct {
	listener     net.Listener
	feedListener net.Listener
	grpcServer   *grpc.Server
	httpServer   *http.Server
	health       *health.Server
	store        *combatsqlite.Store
	matches      *match.Manager
}

// New creates a configured combat server listening on the provided port.
func New(port int) (*Server, error) {
	return NewWithAddr(fmt.Sprintf(":%d", port))
}

// NewWithAddr creates a configured combat server for the provided address.
func NewWithAddr(addr string) (*Server, error) {
	env := loadServerEnv()

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	feedListener, err := net.Listen("tcp", env.FeedAddr)
	if err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("listen feed on %s: %w", env.FeedAddr, err)
	}
	store, err := openCombatStore(env.DBPath)
	if err != nil {
		_ = listener.Close()
		_ = feedListener.Close()
		return nil, err
	}

	hub := feed.NewHub()
	opts := []match.Option{match.WithStore(store), match.WithPublisher(hub)}
	if env.SightRadius > 0 {
		opts = append(opts, match.WithSightRadius(env.SightRadius))
	}
	matches, err := match.NewManager(catalog.Default(), opts...)
	if err != nil {
		_ = listener.Close()
		_ = feedListener.Close()
		_ = store.Close()
		return nil, err
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(interceptors.AuditInterceptor(interceptors.LogSink{})),
	)
	healthServer := health.NewServer()
	combatv1.RegisterCombatServiceServer(grpcServer, combatv1.NewService(matches))
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(combatv1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	isOpen := func(matchID string) bool {
		_, err := matches.Get(matchID)
		return err == nil
	}
	httpServer := &http.Server{
		Handler:           feed.NewHandler(hub, feed.MatchCheckerFunc(isOpen)),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	return &Server{
		listener:     listener,
		feedListener: feedListener,
		grpcServer:   grpcServer,
		httpServer:   httpServer,
		health:       healthServer,
		store:        store,
		matches:      matches,
	}, nil
}

// Addr returns the gRPC listener address.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// FeedAddr returns the websocket feed listener address.
func (s *Server) FeedAddr() string {
	if s == nil || s.feedListener == nil {
		return ""
	}
	return s.feedListener.Addr().String()
}

// Run creates and serves a combat server until context cancellation.
func Run(ctx context.Context, port int) error {
	server, err := New(port)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// RunWithAddr creates and serves a combat server on addr until context
// cancellation.
func RunWithAddr(ctx context.Context, addr string) error {
	server, err := NewWithAddr(addr)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve runs the gRPC server and the feed until the context ends or either
// of them fails.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("combat server listening at %v", s.listener.Addr())
	log.Printf("combat feed listening at %v", s.feedListener.Addr())
	grpcErr := make(chan error, 1)
	go func() {
		grpcErr <- s.grpcServer.Serve(s.listener)
	}()
	feedErr := make(chan error, 1)
	go func() {
		feedErr <- s.httpServer.Serve(s.feedListener)
	}()

	select {
	case <-ctx.Done():
		return s.shutdown(grpcErr)
	case err := <-grpcErr:
		s.stopFeed()
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	case err := <-feedErr:
		s.grpcServer.Stop()
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve feed: %w", err)
	}
}

func (s *Server) shutdown(grpcErr <-chan error) error {
	if s.health != nil {
		s.health.Shutdown()
	}
	s.stopFeed()
	s.grpcServer.GracefulStop()
	if err := <-grpcErr; err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}
	return nil
}

func (s *Server) stopFeed() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown combat feed: %v", err)
	}
}

// Close releases combat server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.feedListener != nil {
		_ = s.feedListener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close combat store: %v", err)
		}
	}
}

func openCombatStore(path string) (*combatsqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := combatsqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open combat sqlite store: %w", err)
	}
	return store, nil
}
