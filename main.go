// SPDX-License-Identifier: GPL-3.0-only
package main

import "github.com/bascanada/admintail/cmd"

func main() {
	cmd.Execute()
}
