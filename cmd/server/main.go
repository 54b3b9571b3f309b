package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/fondazionealfieri/clinicalfolders/config"
	"github.com/fondazionealfieri/clinicalfolders/pkg/otel"
	"github.com/fondazionealfieri/clinicalfolders/server"
)

func main() {
	addrFlag := flag.String("addr", "", "listen address")
	configFlag := flag.String("config", "", "config file")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := otel.Setup(ctx, "clinicalfolders", "0.1.0"); err != nil {
		panic(err)
	}

	cfg, err := config.Parse(*configFlag)

	if err != nil {
		panic(err)
	}

	if *addrFlag != "" {
		cfg.Address = *addrFlag
	}

	s, err := server.New(cfg)

	if err != nil {
		panic(err)
	}

	if err := s.ListenAndServe(ctx); err != nil {
		panic(err)
	}
}
