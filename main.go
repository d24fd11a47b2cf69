package main

import "github.com/youwol/arch/cmd"

func main() {
	cmd.Execute()
}
