package main

import "github.com/arifurrahman-io/malibagsomiti-backend/internal/cli"

func main() {
	cli.Execute()
}
