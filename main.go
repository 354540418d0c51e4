package main

import (
	"os"

	"github.com/kevinjqiu/silverstrike/cmd/importcsv"
	"github.com/kevinjqiu/silverstrike/cmd/importfirefly"
	"github.com/kevinjqiu/silverstrike/cmd/importofx"
	"github.com/kevinjqiu/silverstrike/cmd/root"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(importofx.Cmd)
	root.Cmd.AddCommand(importcsv.Cmd)
	root.Cmd.AddCommand(importfirefly.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
