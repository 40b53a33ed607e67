package main

import "github.com/jasonsjt/ptz-controller/cmd"

func main() {
	cmd.Execute()
}
