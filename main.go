package main

import (
	"os"

	"calendar-digest/core/logger"
	"calendar-digest/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", "error", err)
		os.Exit(1)
	}
}
