package main

import "github.com/derickschaefer/jsonperf/cmd"

func main() {
	cmd.Execute()
}
