package main

import "github.com/askdb-ai/askdb/pkg/cli"

func main() {
	cli.Execute()
}
