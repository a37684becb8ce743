package main

import (
	"github.com/joho/godotenv"

	"github.com/oss-metrics/adoption-tracker/cmd"
)

func main() {
	// Load GITHUB_TOKEN from a local .env when present; the environment wins.
	_ = godotenv.Load()
	cmd.Execute()
}
