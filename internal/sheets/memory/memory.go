// Package memory is a ReportWriter that keeps the last written rows. The
// admin CLI uses it for dry runs.
package memory

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

type Store struct {
	mu     sync.Mutex
	rows   [][]any
	writes int
}

func New() *Store {
	return &Store{}
}

func (s *Store) WriteRows(_ context.Context, rows [][]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = make([][]any, len(rows))
	for i, r := range rows {
		s.rows[i] = append([]any(nil), r...)
	}
	s.writes++
	return nil
}

// Rows returns a copy of the last written rows.
func (s *Store) Rows() [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]any, len(s.rows))
	for i, r := range s.rows {
		out[i] = append([]any(nil), r...)
	}
	return out
}

func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Dump prints the rows tab-separated.
func (s *Store) Dump(w io.Writer) error {
	for _, row := range s.Rows() {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = fmt.Sprint(c)
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return nil
}
