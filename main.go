package main

import "energy-cli/cmd"

func main() {
	cmd.Execute()
}
