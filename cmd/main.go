package main

import (
	"os"

	"ratehub/internal/app"
)

// @title ratehub API
// @version 1.0
// @description Exchange rate hub: periodic fetch, persistence and cached reads
// @BasePath /api/v1
func main() {
	if err := app.Run(); err != nil {
		os.Exit(1)
	}
}
