package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orgsync.dev/internal/config"
	"orgsync.dev/internal/directory/remote"
	"orgsync.dev/internal/httpapi"
	"orgsync.dev/internal/obs"
	"orgsync.dev/internal/provision"
	"orgsync.dev/internal/resolver"
)

var (
	version = "0.3.0"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if cfg.LogPath != "" {
		if err := obs.SetLogFile(cfg.LogPath); err != nil {
			log.Fatalf("open log file: %v", err)
		}
	}

	dir := remote.New(cfg.DirectoryURL, cfg.UserKey, cfg.GlobalToken, nil)
	res := resolver.New(dir, resolver.Transform{
		Chars:       cfg.OrgCharsToReplace,
		Replacement: cfg.OrgCharReplacement,
	})
	svc := provision.New(dir, res, cfg.InviterEmail)

	api := httpapi.New(httpapi.ReadyProbe{Directory: dir}, version, svc, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting orgsync-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	log.Println("Stopped")
}
