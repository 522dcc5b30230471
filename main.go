// Package main provides the entry point for the epsilon-export CLI application.
package main

import (
	"errors"
	"fmt"
	"os"

	"mydata/epsilon-export/cmd/clients"
	"mydata/epsilon-export/cmd/preview"
	"mydata/epsilon-export/cmd/root"
)

func init() {
	root.Init()
	root.Cmd.AddCommand(preview.Cmd)
	root.Cmd.AddCommand(clients.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		if !errors.Is(err, root.ErrBlocked) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
