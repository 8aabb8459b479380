package main

import "github.com/aussiebroadwan/identity/cmd/identityctl/cmd"

func main() {
	cmd.Execute()
}
