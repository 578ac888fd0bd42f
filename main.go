package main

import "github.com/marceldev/mediadex/cmd"

func main() {
	defer cmd.Cleanup()
	cmd.Execute()
}
