package main

import "github.com/jharris/bookbinder/cmd"

func main() {
	cmd.Execute()
}
