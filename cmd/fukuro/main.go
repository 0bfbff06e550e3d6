package main

import "github.com/MeKo-Tech/fukuro/cmd/fukuro/cmd"

func main() {
	cmd.Execute()
}
