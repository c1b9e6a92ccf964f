// Package main is the entry point for the nbaefg CLI tool, which joins NBA
// play-by-play score context onto shots and reports effective field-goal
// percentage by game situation.
package main

import "github.com/pable/go-nba-efg/cmd"

func main() {
	cmd.Execute()
}
