package main

import (
	"github.com/foomo/contentreports/cmd"
)

func main() {
	cmd.Execute()
}
