package main

import (
	"log/slog"

	"uvreplace/internal/uvreplace/cmd"
	"uvreplace/internal/uvreplace/log"
)

func main() {
	defer log.RecoverPanic("main", func() {
		slog.Error("Application terminated due to unhandled panic")
	})

	cmd.Execute()
}
