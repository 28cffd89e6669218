package main

import (
	"os"

	"github.com/liran-funaro/automata/exec"
)

func main() {
	os.Exit(exec.Main())
}
