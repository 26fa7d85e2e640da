package main

import "github.com/corykiser/ohio-parcel-extractor/internal/cli"

func main() {
	cli.Execute()
}
