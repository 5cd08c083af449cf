package main

import "github.com/ralpfi/prediction-engine-go/cmd"

func main() {
	cmd.Execute()
}
