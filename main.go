package main

import "github.com/scienceol/hintd/cmd"

func main() {
	cmd.Execute()
}
