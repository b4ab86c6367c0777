package main

import "github.com/dt-pm-tools/jira-summarizer/cmd"

func main() {
	cmd.Execute()
}
