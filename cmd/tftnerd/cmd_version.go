// Package main implements the tftNERD CLI commands.
// This file contains the version command.
package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tftNERD %s (%s/%s, %s)\n",
			cfg.Version, runtime.GOOS, runtime.GOARCH, runtime.Version())
	},
}
