package log

import "testing"

func TestNew_Quiet(t *testing.T) {
	logger, err := New(0, true)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if logger == nil {
		t.Fatal("expected a non-nil logger")
	}
}

func TestNew_Verbose(t *testing.T) {
	logger, err := New(1, false)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if logger == nil {
		t.Fatal("expected a non-nil logger")
	}
}

func TestNew_Default(t *testing.T) {
	logger, err := New(0, false)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if logger == nil {
		t.Fatal("expected a non-nil logger")
	}
}
