package logger

import "testing"

func TestMultiFansOut(t *testing.T) {
	a := &Memory{}
	b := &Memory{}
	m := Multi{a, b}

	m.Info("hello", "k", 1)
	m.Error("boom")

	for _, rec := range []*Memory{a, b} {
		entries := rec.Entries()
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].Level != "info" || entries[0].Message != "hello" {
			t.Fatalf("unexpected first entry: %+v", entries[0])
		}
		if rec.Count("error") != 1 {
			t.Fatalf("expected one error entry")
		}
	}
}

func TestWithNil(t *testing.T) {
	l := With(nil)
	if _, ok := l.(Nop); !ok {
		t.Fatalf("expected Nop, got %T", l)
	}
	l.Error("discarded")
}
