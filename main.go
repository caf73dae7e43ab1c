package main

import "session-sync/cmd"

func main() {
	cmd.Execute()
}
