package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/akhmads/adscli/internal/buildinfo"
	"github.com/akhmads/adscli/internal/client/cli"
	"github.com/akhmads/adscli/internal/client/config"
	"github.com/akhmads/adscli/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer app.Close()

	app.Run(ctx)

}
