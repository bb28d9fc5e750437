package main

import "github.com/sarpras/alatclient/cmd/alat/cmd"

func main() {
	cmd.Execute()
}
