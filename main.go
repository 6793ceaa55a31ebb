package main

import "modsync/cmd"

func main() {
	cmd.Execute()
}
