package main

import (
	"os"

	"github.com/joho/godotenv"

	switchboardcmder "github.com/switchboardco/switchboard/cmd/switchboard"
)

func main() {
	// A local .env is optional. Missing files are not an error.
	_ = godotenv.Load()

	cmd := switchboardcmder.NewSwitchboardCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
