package main

import "trip-dashboard/cmd/dashboard/cmd"

func main() {
	cmd.Execute()
}
