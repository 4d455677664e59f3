// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/emupack/emupack/cmd/emupack"

func main() {
	cmd.Execute()
}
