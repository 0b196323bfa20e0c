package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pedidos/internal/config"
	"pedidos/internal/normalize"
	"pedidos/internal/storage"
	"pedidos/internal/watcher"
)

func main() {
	cfg, err := config.Load()
	must(err)

	vocab, err := normalize.Load(cfg.VocabPath)
	must(err)

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	svc := watcher.NewService(db, cfg, vocab)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	must(svc.Run(ctx))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
