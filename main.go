package main

import "github.com/imzhenyu/rDSN.dist.service.flow/cmd"

func main() {
	cmd.Execute()
}
