// Command chatcli reads and posts to an anonchat server from the terminal.
package main

import "github.com/johndosdos/anonchat/cmd/chatcli/cmd"

func main() {
	cmd.Execute()
}
