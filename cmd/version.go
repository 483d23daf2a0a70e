// SPDX-License-Identifier: GPL-3.0-only
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X github.com/bascanada/admintail/cmd.Version=..."
var Version = "dev"

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("admintail " + Version)
	},
}
