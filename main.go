package main

import "mangashelf/cmd"

func main() {
	cmd.Execute()
}
