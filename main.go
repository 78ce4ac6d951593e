// Package main is the entry point of sdmp3.
package main

import (
	"github.com/samber/lo"
	"github.com/sdmp3/sdmp3/cmd"
	"github.com/sdmp3/sdmp3/config"
	"github.com/sdmp3/sdmp3/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
