package main

import "metronome/cmd"

func main() {
	cmd.Execute()
}
