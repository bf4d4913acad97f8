package main

import (
	"log/slog"

	"github.com/propconnect/propconnect/cmd"
	"github.com/propconnect/propconnect/pkg/logs"
)

func main() {
	// Commands replace this with the config-driven logger once config loads.
	slog.SetDefault(logs.Default())
	cmd.Execute()
}
