package main

import "kbli-registry/cmd"

func main() {
	cmd.Execute()
}
