package main

import "vaultdedup/cmd"

func main() {
	cmd.Execute()
}
