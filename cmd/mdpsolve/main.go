package main

import "github.com/sw965/mdp/cli"

func main() {
	cli.Execute()
}
