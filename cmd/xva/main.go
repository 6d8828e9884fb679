package main

import (
	"os"

	"github.com/JackRW23/xva-desk-simulator/cmd/xva/commands"
)

// main is the entry point for the XVA desk CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/xva [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
