package main

import "monadswap/cmd"

func main() {
	cmd.Execute()
}
