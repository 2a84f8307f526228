package main

import "github.com/julienpequegnot/imagepick/cmd"

func main() {
	cmd.Execute()
}
