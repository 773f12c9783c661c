package main

import (
	"log/slog"
	"os"

	"github.com/metinatakli/cinex-booking/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		slog.Error("cinex-booking stopped", "error", err)
		os.Exit(1)
	}
}
