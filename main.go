package main

import "taxon/cmd"

func main() {
	cmd.Execute()
}
