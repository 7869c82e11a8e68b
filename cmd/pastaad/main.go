// Command pastaad runs the pastaa server: encrypted paste storage and
// the chat fan-out. It stores only ciphertext and never holds a key
// that can open any of it.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"pastaa/internal/config"
	"pastaa/internal/hub"
	"pastaa/internal/server"
	"pastaa/internal/session"
	"pastaa/internal/store"
)

func main() {
	configPath := flag.String("config", "pastaad.yaml", "path to config file")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	st, err := store.New(store.Config{Dir: cfg.DataDir, InMemory: cfg.InMemory, Logger: log})
	if err != nil {
		log.WithError(err).Fatal("open store")
	}
	defer st.Close()

	// Transport keys are generated per process start. Clients that pin
	// the signing key learn it out of band from this log line.
	keys, err := session.NewServerKeys()
	if err != nil {
		log.WithError(err).Fatal("generate transport keys")
	}
	log.WithField("signingKey", keys.SigningPublicKeyHex()).Info("transport signing key")

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           server.New(st, hub.New(log), keys, server.WithLogger(log)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("listen", cfg.Listen).Info("serving")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("serve")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}
