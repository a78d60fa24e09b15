package main

import "github.com/hupe1980/paretogo/internal/cli"

func main() {
	cli.Execute()
}
