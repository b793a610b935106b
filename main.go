package main

import "github.com/notargets/goblock/cmd"

func main() {
	cmd.Execute()
}
