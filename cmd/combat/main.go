package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	combatcmd "github.com/louisbranch/skirmish/internal/cmd/combat"
)

func main() {
	cfg, err := combatcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[COMBAT] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := combatcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
