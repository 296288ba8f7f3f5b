// Package main provides the entry point for the riskctl CLI tool.
package main

import "github.com/bell24h/supplierrisk/cmd/cli"

func main() {
	cli.Execute()
}
