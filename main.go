package main

import "github.com/MeetChauhan03/Redirection-status-checker/cmd"

func main() {
	cmd.Execute()
}
