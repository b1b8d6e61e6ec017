package main

import "github.com/structline/tiernorm/cmd"

func main() {
	cmd.Execute()
}
