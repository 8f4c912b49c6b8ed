package main

import "classechat/cmd"

func main() {
	cmd.Execute()
}
