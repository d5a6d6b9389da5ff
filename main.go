package main

import "github.com/endorses/callflow/cmd"

func main() {
	cmd.Execute()
}
