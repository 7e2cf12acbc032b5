package main

import "testing"

func TestChosenColumns(t *testing.T) {
	cols := chosenColumns([]string{" username ", "", "name.given"})
	if len(cols) != 2 || cols[0] != "username" || cols[1] != "name.given" {
		t.Fatalf("cols = %v", cols)
	}
	if chosenColumns(nil) != nil {
		t.Fatal("nil input should stay nil")
	}
}
