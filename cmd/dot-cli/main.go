package main

import "dot-wallet/cmd/dot-cli/cmd"

func main() {
	cmd.Execute()
}
