package main

import "github.com/StinkyLord/xdc-to-vhdl/cmd"

func main() {
	cmd.Execute()
}
