package notify

import "testing"

func TestQueueDropsOldestWhenFull(t *testing.T) {
	q := NewQueue(2)
	Infof(q, "one")
	Infof(q, "two")
	Errorf(q, "three")

	got := q.Drain()
	if len(got) != 2 {
		t.Fatalf("got %d notifications, want 2", len(got))
	}
	if got[0].Message != "two" || got[1].Message != "three" {
		t.Errorf("messages = %q, %q", got[0].Message, got[1].Message)
	}
	if got[1].Level != Error {
		t.Errorf("level = %v, want error", got[1].Level)
	}
	if len(q.Drain()) != 0 {
		t.Error("queue should be empty after drain")
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	if _, ok := r.Last(); ok {
		t.Fatal("empty recorder should have no last")
	}
	Successf(&r, "ok")
	Errorf(&r, "bad")
	last, ok := r.Last()
	if !ok || last.Message != "bad" || last.Level != Error {
		t.Errorf("last = %+v", last)
	}
	if len(r.All()) != 2 {
		t.Errorf("all = %d, want 2", len(r.All()))
	}
}

func TestNilNotifierIsSafe(t *testing.T) {
	Successf(nil, "ignored")
	Discard.Notify(Notification{Message: "ignored"})
}

func TestLevelString(t *testing.T) {
	tests := map[Level]string{Info: "info", Success: "success", Error: "error"}
	for lvl, want := range tests {
		if got := lvl.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", lvl, got, want)
		}
	}
}
