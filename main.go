// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/AskMe-CMI/TiG-Stack/cmd/tigstack"

func main() {
	cmd.Execute()
}
