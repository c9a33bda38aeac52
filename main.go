package main

import "github.com/algoswap/swapshop/cmd"

func main() {
	cmd.Execute()
}
