package logger

import "testing"

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"production", "prod", "development", "", " Production "} {
		log, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q): %v", mode, err)
		}
		if log == nil || log.SugaredLogger == nil {
			t.Fatalf("New(%q) returned incomplete logger", mode)
		}
	}
}

func TestWithReturnsChild(t *testing.T) {
	log, err := New("development")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	child := log.With("repo", "SegmentRepo")
	if child == log || child.SugaredLogger == log.SugaredLogger {
		t.Fatalf("With must return a new logger, not mutate the parent")
	}
}
