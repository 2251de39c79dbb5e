package main

import "github.com/nitr-himanshu/adb-util/internal/cmd"

func main() {
	cmd.Execute()
}
