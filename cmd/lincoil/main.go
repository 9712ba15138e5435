package main

import "github.com/OpenTraceLab/lincoil/cmd/lincoil/cmd"

func main() {
	cmd.Execute()
}
