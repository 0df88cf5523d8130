// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/lunescripts/lunescripts/cmd/lunescripts"

func main() {
	cmd.Execute()
}
