package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/bookstore-catalog/catalog/config"
	"github.com/Astemirdum/bookstore-catalog/catalog/internal/handler"
	"github.com/Astemirdum/bookstore-catalog/catalog/internal/repository"
	"github.com/Astemirdum/bookstore-catalog/catalog/internal/repository/memstore"
	"github.com/Astemirdum/bookstore-catalog/catalog/internal/server"
	"github.com/Astemirdum/bookstore-catalog/catalog/internal/service"
	"github.com/Astemirdum/bookstore-catalog/catalog/migrations"
	"github.com/Astemirdum/bookstore-catalog/pkg/logger"
	"github.com/Astemirdum/bookstore-catalog/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "catalog")
	defer log.Sync() //nolint:errcheck

	repo, closeRepo := newRepository(cfg, log)
	defer closeRepo()
	svc := service.NewService(repo, log)

	h := handler.New(svc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)),
		zap.String("storage", cfg.Storage))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	log.Info("Graceful shutdown finished")
}

func newRepository(cfg *config.Config, log *zap.Logger) (repository.Repository, func()) {
	if cfg.Storage == config.StorageMemory {
		store, err := memstore.New()
		if err != nil {
			log.Fatal("memstore", zap.Error(err))
		}
		return store, func() {}
	}

	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}
	return repo, db.Close
}
