package main

import "testing"

func TestRootCommandName(t *testing.T) {
	if rootCmd.Use != "annum" {
		t.Fatalf("expected root command name annum, got %q", rootCmd.Use)
	}
}
