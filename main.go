/*
Copyright © 2026 Mathagent Authors
*/
package main

import "Mathagent/internal/cli"

func main() {
	cli.Execute()
}
