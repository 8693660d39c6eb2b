package main

import "trip-dashboard/cmd/loader/cmd"

func main() {
	cmd.Execute()
}
