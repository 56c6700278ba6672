// Package main is the entry point for the rutube application.
package main

import (
	"github.com/samber/lo"

	"github.com/rutube-cli/rutube/cmd"
	"github.com/rutube-cli/rutube/config"
	"github.com/rutube-cli/rutube/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
