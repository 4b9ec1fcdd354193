package main

import "testing"

func TestRunCommandRegistered(t *testing.T) {
	root := newRootCmd()

	cmd, _, err := root.Find([]string{"run"})
	if err != nil || cmd.Name() != "run" {
		t.Fatalf("run subcommand not found: %v", err)
	}

	alias, _, err := root.Find([]string{"check"})
	if err != nil || alias != cmd {
		t.Errorf("check must alias the run subcommand, got %v (%v)", alias, err)
	}
}
