package main

import "github.com/kamelfcis/childtodotasks/cmd/chore/root"

func main() {
	root.Execute()
}
