package main

import (
	"eposfetch/cmd/epos-cli/commands"
	"eposfetch/lib/osutil"
)

func main() {
	commands.ExecuteContext(osutil.SignalContext())
}
