// Package main provides the entrypoint for the saga relay.
package main

import (
	"os"

	"github.com/env0/saga/cmd"
)

func main() {
	if err := cmd.New().Execute(); err != nil {
		os.Exit(1)
	}
}
