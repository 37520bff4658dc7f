// temi-rest: REST gateway for the temi robot.
// Receives HTTP JSON commands, validates them and forwards them to the
// on-robot SDK bridge (or an in-process simulator).
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/temihq/go-temi-rest/internal/config"
	"github.com/temihq/go-temi-rest/internal/log"
	"github.com/temihq/go-temi-rest/pkg/command"
	"github.com/temihq/go-temi-rest/pkg/robot"
	"github.com/temihq/go-temi-rest/pkg/web"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Flags override environment
	port := flag.Int("port", cfg.Port, "HTTP server port")
	bridge := flag.String("bridge", cfg.BridgeURL, "SDK bridge base URL")
	sim := flag.Bool("sim", cfg.Sim, "Use the simulated robot instead of the bridge")
	debug := flag.Bool("debug", cfg.LogLevel == "debug", "Enable debug logging")
	flag.Parse()

	level := cfg.LogLevel
	if *debug {
		level = "debug"
	}
	log.Init(level)

	var actuator robot.Actuator
	if *sim {
		actuator = robot.NewSim()
		log.Info("using simulated robot")
	} else {
		actuator = robot.NewBridgeClient(*bridge)
		log.Info("using SDK bridge", "url", *bridge)
	}

	dispatcher := command.NewDispatcher(actuator, "temi-rest", version)
	server := web.NewServer(dispatcher, *debug)

	addr := fmt.Sprintf(":%d", *port)
	go func() {
		log.Info("server starting", "addr", addr, "version", version)
		if err := server.Start(addr); err != nil {
			log.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	if err := server.Shutdown(5 * time.Second); err != nil {
		log.Error("shutdown error", "err", err)
	}

	// Stop any in-flight drive task before the process exits
	dispatcher.Close()

	log.Info("goodbye")
}
