package main

import "github.com/pandodao/i18n-keys/cmd"

func main() {
	cmd.Execute()
}
