package main

import "github.com/khedut-saathi/khedut/cmd"

func main() {
	cmd.Execute()
}
