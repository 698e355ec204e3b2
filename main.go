// SPDX-License-Identifier: MPL-2.0

package main

import cmd "vshell-cli/cmd/vshell"

func main() {
	cmd.Execute()
}
