package pty

import (
	"bytes"
	"testing"
	"time"
)

func TestStreamReplayAndSubscribe(t *testing.T) {
	h := newFakeHandle()
	s := newFakeSession(h)
	st := NewStream(s)

	ch, unsub := st.Subscribe()
	defer unsub()

	if _, err := h.outW.Write([]byte("hello ")); err != nil {
		t.Fatalf("feed output: %v", err)
	}
	if _, err := h.outW.Write([]byte("world")); err != nil {
		t.Fatalf("feed output: %v", err)
	}

	var got []byte
	deadline := time.After(5 * time.Second)
	for len(got) < len("hello world") {
		select {
		case chunk := <-ch:
			got = append(got, chunk...)
		case <-deadline:
			t.Fatalf("subscriber received %q, want %q", got, "hello world")
		}
	}
	if !bytes.Equal(got, []byte("hello world")) {
		t.Errorf("subscriber got %q, want %q", got, "hello world")
	}
	if replay := st.Replay(); !bytes.Equal(replay, []byte("hello world")) {
		t.Errorf("Replay() = %q, want %q", replay, "hello world")
	}
}

func TestStreamEndsOnEOF(t *testing.T) {
	h := newFakeHandle()
	s := newFakeSession(h)
	st := NewStream(s)

	ch, unsub := st.Subscribe()
	defer unsub()

	h.outW.Close()

	select {
	case <-st.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not end on EOF")
	}

	// Subscriber channels are closed when the stream ends.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("subscriber channel was not closed")
		}
	}
}

func TestStreamSubscribeAfterEnd(t *testing.T) {
	h := newFakeHandle()
	s := newFakeSession(h)
	st := NewStream(s)

	h.outW.Close()
	<-st.Done()

	ch, unsub := st.Subscribe()
	defer unsub()
	if _, ok := <-ch; ok {
		t.Error("subscription after end delivered data, want closed channel")
	}
}

func TestStreamReplayBounded(t *testing.T) {
	h := newFakeHandle()
	s := newFakeSession(h)
	st := NewStream(s)

	chunk := bytes.Repeat([]byte("x"), 8*1024)
	total := 0
	for total < replayBufSize*2 {
		if _, err := h.outW.Write(chunk); err != nil {
			t.Fatalf("feed output: %v", err)
		}
		total += len(chunk)
	}
	h.outW.Close()
	<-st.Done()

	if got := len(st.Replay()); got > replayBufSize {
		t.Errorf("replay holds %d bytes, want at most %d", got, replayBufSize)
	}
}
