package sink

import "testing"

func TestMultiSinkFansOutToEverySink(t *testing.T) {
	a, b := NewMemSink(), NewMemSink()
	m := NewMultiSink(a, b)
	if err := m.Write([]int16{1, -2, 3}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	for name, s := range map[string]*MemSink{"a": a, "b": b} {
		if len(s.Samples) != 3 || s.Samples[0] != 1 || s.Samples[1] != -2 || s.Samples[2] != 3 {
			t.Errorf("sink %s: got %v", name, s.Samples)
		}
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !a.Closed() || !b.Closed() {
		t.Error("expected both wrapped sinks closed")
	}
}

func TestMemSinkAccumulates(t *testing.T) {
	s := NewMemSink()
	if err := s.Write([]int16{1, 2, 3}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Write([]int16{4, 5}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := []int16{1, 2, 3, 4, 5}
	if len(s.Samples) != len(want) {
		t.Fatalf("got %d samples, want %d", len(s.Samples), len(want))
	}
	for i, v := range want {
		if s.Samples[i] != v {
			t.Fatalf("sample %d: got %d want %d", i, s.Samples[i], v)
		}
	}
}

func TestMemSinkClose(t *testing.T) {
	s := NewMemSink()
	if s.Closed() {
		t.Fatal("new sink reports closed")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !s.Closed() {
		t.Fatal("sink does not report closed after Close")
	}
}
