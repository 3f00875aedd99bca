package main

import "github.com/rulelens/rulelens-cli/cmd"

func main() {
	cmd.Execute()
}
