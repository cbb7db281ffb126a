// Package main runs the interactive terminal front end of the date calculator.
package main

import (
	"cmp"
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/atinyakov/GophDate/internal/client/shell"
	"github.com/atinyakov/GophDate/internal/config"
	"github.com/atinyakov/GophDate/internal/logger"
	"github.com/atinyakov/GophDate/internal/service"
	"github.com/atinyakov/GophDate/internal/storage"
)

var (
	version   string
	buildDate string
)

// main parses command-line flags, opens storage and starts the shell in
// guest, login or register mode.
func main() {
	var (
		mode     string
		loginStr string
		email    string
		showVer  bool
	)

	flag.StringVar(&mode, "cmd", string(shell.Guest), "session: guest | login | register")
	flag.StringVar(&loginStr, "login", "", "username for login or registration")
	flag.StringVar(&email, "email", "", "email for registration")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	options := config.Parse()

	if showVer {
		fmt.Printf("GophDate Client\nVersion: %s\nBuild Date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return
	}

	// Log to stderr at the configured level; the shell owns stdout.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store := storage.Open(ctx, options, log.Log)
	defer func() { _ = store.Close() }()

	gateway := service.NewGateway(store.Backend, options.History.MaxRecords, log.Log)
	calculator := service.NewCalculator(gateway, options.Lang())

	sh := shell.New(calculator, gateway, os.Stdin, os.Stdout)
	if err := sh.StartSession(ctx, gateway, shell.Mode(mode), loginStr, email); err != nil {
		log.Log.Error("session not started", zap.String("mode", mode), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	sh.Run(ctx)
}
