package memory

import (
	"bytes"
	"context"
	"testing"
)

func TestStore(t *testing.T) {
	s := New()
	rows := [][]any{{"Metric", "Value"}, {"Total clients", 2}}
	if err := s.WriteRows(context.Background(), rows); err != nil {
		t.Fatal(err)
	}
	rows[1][1] = 99

	got := s.Rows()
	if got[1][1] != 2 {
		t.Fatalf("store should keep its own copy, got %v", got)
	}
	if s.Writes() != 1 {
		t.Fatalf("Writes() = %d", s.Writes())
	}

	var buf bytes.Buffer
	if err := s.Dump(&buf); err != nil {
		t.Fatal(err)
	}
	if want := "Metric\tValue\nTotal clients\t2\n"; buf.String() != want {
		t.Fatalf("Dump = %q", buf.String())
	}
}
