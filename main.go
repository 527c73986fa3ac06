package main

import (
	"github.com/scanmill/scanmill/cmd"
)

func main() {
	cmd.Execute()
}
