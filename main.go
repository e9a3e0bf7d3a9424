package main

import "github.com/jsphweid/mellowchord/cmd"

func main() {
	cmd.Execute()
}
