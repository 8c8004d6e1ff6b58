package main

import "github.com/dt-pm-tools/mdpub/cmd"

func main() {
	cmd.Execute()
}
