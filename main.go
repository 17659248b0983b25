package main

import "github.com/ThatOtherAndrew/Horologe/cmd"

func main() {
	cmd.Execute()
}
