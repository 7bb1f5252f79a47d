package main

import "github.com/frahmantamala/expenzor/cmd"

func main() {
	cmd.Execute()
}
