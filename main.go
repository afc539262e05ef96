package main

import "github.com/craftsland/mention-to-chatwork/cmd"

func main() {
	cmd.Execute()
}
