package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	tcpctx "github.com/dtroode/qaforum-server/internal/api/tcp/context"
	"github.com/dtroode/qaforum-server/internal/api/tcp/handler"
	"github.com/dtroode/qaforum-server/internal/api/tcp/middleware"
	tcpServer "github.com/dtroode/qaforum-server/internal/api/tcp/server"
	"github.com/dtroode/qaforum-server/internal/config"
	"github.com/dtroode/qaforum-server/internal/logger"
	"github.com/dtroode/qaforum-server/internal/model"
	"github.com/dtroode/qaforum-server/internal/repository/file"
	"github.com/dtroode/qaforum-server/internal/repository/postgres"
	"github.com/dtroode/qaforum-server/internal/server"
	"github.com/dtroode/qaforum-server/internal/service"
	storage "github.com/dtroode/qaforum-server/internal/storage/minio"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	persister, closer, err := newPersister(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize storage", "backend", cfg.Storage.Backend, "error", err)
	}
	defer closer.Close()

	users := service.NewUsers(persister, newHasher(cfg), cfg.Forum.MaxUsers, logger)
	if err := users.Load(ctx); err != nil {
		logger.Fatal("failed to load users", "error", err)
	}

	questions := service.NewQuestions(users, persister, cfg.Forum.MaxQuestions, cfg.Forum.MaxAnswers, logger)
	if err := questions.Load(ctx); err != nil {
		logger.Fatal("failed to load questions", "error", err)
	}

	ctxMgr := tcpctx.NewManager()
	dispatcher := handler.NewDispatcher(users, questions, handler.Options{
		MaxMessageSize:   cfg.Forum.MaxMessageSize,
		LeaderboardSize:  cfg.Forum.LeaderboardSize,
		ListRequiresAuth: cfg.Forum.ListRequiresAuth,
	}, logger)
	logging := middleware.NewLogging(logger, ctxMgr)

	forumServer := tcpServer.NewTCPServer(
		logging.Wrap(dispatcher.Dispatch),
		fmt.Sprintf(":%s", cfg.TCP.Port),
		cfg.Forum.MaxMessageSize,
		ctxMgr,
		logger,
	)

	sl := server.NewSecurityLayer(cfg.TCP.EnableTLS, cfg.TCP.CertFileName, cfg.TCP.PrivateKeyFileName)

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "tls", cfg.TCP.EnableTLS)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(forumServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.TCP.ShutdownTimeout)
	defer shutdownCancel()

	if err := forumServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", forumServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func newHasher(cfg *config.Config) service.PasswordHasher {
	if cfg.Password.Algorithm == config.AlgorithmArgon2ID {
		return service.NewArgon2Hasher(cfg.Password.Salt, service.KDFParams{
			Time:   cfg.KDF.Time,
			MemKiB: cfg.KDF.MemKiB,
			Par:    cfg.KDF.Par,
		})
	}
	return service.NewSHA256Hasher(cfg.Password.Salt)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newPersister(ctx context.Context, cfg *config.Config) (model.Persister, io.Closer, error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewPersister(db.DB), db, nil

	case config.BackendMinio:
		client, err := storage.Connect(ctx, storage.Options{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
		})
		if err != nil {
			return nil, nil, err
		}
		return storage.NewPersister(client, cfg.Forum.MaxAnswers), nopCloser{}, nil

	default:
		p, err := file.NewPersister(cfg.Storage.Dir, cfg.Forum.MaxAnswers)
		if err != nil {
			return nil, nil, err
		}
		return p, nopCloser{}, nil
	}
}
