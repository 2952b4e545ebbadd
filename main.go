package main

import "vineyard-planner/cmd"

func main() {
	cmd.Execute()
}
