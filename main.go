package main

import "github.com/ankane/tablestorage/cmd"

func main() {
	cmd.Execute()
}
