package history

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func TestRecordAndGet(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	e, err := s.Record("amenity=cafe", "node[amenity=cafe];")
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if e.ID == 0 || e.Uses != 1 || e.Search != "amenity=cafe" {
		t.Fatalf("Record() = %+v", e)
	}

	got, err := s.Get(e.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Query != "node[amenity=cafe];" {
		t.Errorf("Query = %q", got.Query)
	}
	if !got.LastUsed.Equal(e.LastUsed) {
		t.Errorf("LastUsed = %v, want %v", got.LastUsed, e.LastUsed)
	}
}

func TestRecordRepeatBumpsEntry(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	first, err := s.Record("shop=*", "q1")
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	again, err := s.Record("shop=*", "q1")
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if again.ID != first.ID {
		t.Fatalf("repeat got ID %d, want %d", again.ID, first.ID)
	}
	if again.Uses != 2 {
		t.Errorf("Uses = %d, want 2", again.Uses)
	}
	if !again.LastUsed.After(first.LastUsed) {
		t.Errorf("LastUsed %v not after %v", again.LastUsed, first.LastUsed)
	}

	// A different query for the same search is a separate entry.
	other, err := s.Record("shop=*", "q2")
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if other.ID == first.ID {
		t.Error("different query reused the entry")
	}
}

func TestListOrderAndLimit(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	for _, search := range []string{"a=1", "b=2", "c=3"} {
		if _, err := s.Record(search, "q "+search); err != nil {
			t.Fatalf("Record(%q) error = %v", search, err)
		}
	}
	// Using a=1 again moves it to the front.
	if _, err := s.Record("a=1", "q a=1"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	all, err := s.List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var order []string
	for _, e := range all {
		order = append(order, e.Search)
	}
	if want := []string{"a=1", "c=3", "b=2"}; !equal(order, want) {
		t.Fatalf("List(0) order = %v, want %v", order, want)
	}

	two, err := s.List(2)
	if err != nil {
		t.Fatalf("List(2) error = %v", err)
	}
	if len(two) != 2 || two[0].Search != "a=1" {
		t.Errorf("List(2) = %+v", two)
	}
}

func TestDeleteClearPrune(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	var ids []int64
	for _, search := range []string{"a=1", "b=2", "c=3", "d=4"} {
		e, err := s.Record(search, "q")
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		ids = append(ids, e.ID)
	}

	n, err := s.Delete(ids[0], 9999)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Delete() removed %d, want 1", n)
	}
	if _, err := s.Get(ids[0]); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(deleted) error = %v, want ErrNotFound", err)
	}

	if n, err := s.Delete(); err != nil || n != 0 {
		t.Errorf("Delete() with no IDs = (%d, %v), want (0, nil)", n, err)
	}

	n, err = s.Prune(2)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Prune(2) removed %d, want 1", n)
	}
	left, _ := s.List(0)
	if len(left) != 2 || left[0].Search != "d=4" || left[1].Search != "c=3" {
		t.Errorf("after Prune = %+v", left)
	}

	n, err = s.Clear()
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Clear() removed %d, want 2", n)
	}
}

func TestOpenInMemory(t *testing.T) {
	t.Parallel()

	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer s.Close()

	if _, err := s.Record("x=y", "q"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	entries, err := s.List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("got %d entries, want 1", len(entries))
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := s.Record("amenity=bench", "q"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()
	entries, err := s.List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Search != "amenity=bench" {
		t.Errorf("entries = %+v", entries)
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
