package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/logging"
	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/server"
	"golang.org/x/sync/errgroup"
)

var (
	log = logrus.New()

	configPath string
	envFile    string
)

func init() {
	const usage = "config file path"
	flag.StringVar(&configPath, "config", "", usage)
	flag.StringVar(&configPath, "c", "", usage+" (shorthand)")
	flag.StringVar(&envFile, "env", "", "env file to load instead of ./.env")
}

func main() {
	mainCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	flag.Parse()

	var envFiles []string
	if envFile != "" {
		envFiles = append(envFiles, envFile)
	}
	cfg, err := config.Load(configPath, envFiles...)
	if err != nil {
		log.Fatal("unable to load config: ", err)
	}

	if err := logging.Setup(log, *cfg); err != nil {
		log.Fatal("unable to set up logging: ", err)
	}
	mines.Log = log

	log.Info("starting up, mode = ", cfg.Mode)
	log.WithFields(cfg.Fields()).Debug("config")

	srv := server.New(log, *cfg)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(l net.Listener) context.Context {
			return mainCtx
		},
	}

	log.Infof("ready to serve @ %s", cfg.Addr)

	g, gCtx := errgroup.WithContext(mainCtx)
	g.Go(func() error {
		err := httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return srv.Sessions().Run(gCtx, cfg.Session.SweepInterval.Duration)
	})
	g.Go(func() error {
		<-gCtx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Errorf("exit reason: %s", err)
		os.Exit(1)
	}
	log.Info("shut down")
}
