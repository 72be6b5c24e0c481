package main

import "github.com/hperssn/unibalance/internal/cli"

func main() {
	cli.Execute()
}
