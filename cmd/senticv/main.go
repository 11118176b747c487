// cmd/senticv/main.go
package main

import (
	cmd "github.com/mwiater/senticv/internal/cli"
)

// Populated by -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// main starts the senticv CLI by delegating to the cobra root command.
func main() {
	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}
