package main

import "funmoney/internal/cli"

func main() {
	cli.Execute()
}
