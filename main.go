package main

import "findata-api/internal/cli"

func main() {
	cli.Execute()
}
