package main

import "github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/cli"

func main() {
	cli.Execute()
}
