package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fapdigital/editais-backend/internal/app"
	"github.com/fapdigital/editais-backend/internal/pkg/envutil"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application.Start()

	port := envutil.GetEnv("PORT", "8080", application.Log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := application.Run(ctx, ":"+port); err != nil {
		application.Log.Error("Server failed", "error", err)
	}
}
