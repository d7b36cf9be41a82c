// cmd/knowpack/main.go
package main

import (
	cmd "github.com/mwiater/knowpack/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	setVersionInfo = cmd.SetVersionInfo
	executeCmd     = cmd.Execute
)

// main starts the knowpack CLI by delegating to the cobra root command
// defined in the knowpack package.
func main() {
	setVersionInfo(version, commit, date)
	executeCmd()
}
