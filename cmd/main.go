// cmd/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"neon_quizlet/internal/cli"
)

func main() {
	// Ctrl+C で学習中のセッションを止める
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, cli.DefaultBootstrap, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
