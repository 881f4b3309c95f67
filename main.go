package main

import "github.com/naeri/kokoto-httpd/cmd"

func main() {
	cmd.Execute()
}
