package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := Execute(); err != nil {
		slog.Default().Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}
