package main

import "github.com/mcoot/psconsole/internal/cli"

func main() {
	cli.Execute()
}
