package main

import "github.com/oshokin/alarm-watchdog/cmd/alarm-watchdog/cmd"

func main() {
	cmd.Execute()
}
