package pty

import (
	"sync"
)

// replayBufSize bounds the per-session replay buffer.
const replayBufSize = 64 * 1024

// Stream fans a session's terminal output out to subscribers while
// keeping a bounded replay buffer for late attachers. Library callers
// that consume the output endpoint directly do not need a Stream; the
// control daemon attaches one per session.
type Stream struct {
	sess *Session

	mu     sync.Mutex
	replay []byte
	subs   map[chan []byte]struct{}
	closed bool

	done chan struct{}
}

// NewStream starts a read loop on the session's output endpoint. The
// loop runs until the endpoint reports an error, which happens once
// the child exits and the terminal is hung up.
func NewStream(sess *Session) *Stream {
	st := &Stream{
		sess: sess,
		subs: make(map[chan []byte]struct{}),
		done: make(chan struct{}),
	}
	go st.readLoop()
	return st
}

func (st *Stream) readLoop() {
	defer st.finish()

	buf := make([]byte, 32*1024)
	for {
		n, err := st.sess.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			st.dispatch(data)
		}
		if err != nil {
			// EOF, or EIO after the slave side hung up.
			return
		}
	}
}

func (st *Stream) dispatch(data []byte) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.replay = append(st.replay, data...)
	if len(st.replay) > replayBufSize {
		st.replay = st.replay[len(st.replay)-replayBufSize:]
	}

	for ch := range st.subs {
		select {
		case ch <- data:
		default:
			// Slow subscriber, drop the chunk.
		}
	}
}

func (st *Stream) finish() {
	st.mu.Lock()
	for ch := range st.subs {
		close(ch)
		delete(st.subs, ch)
	}
	st.closed = true
	st.mu.Unlock()
	close(st.done)
}

// Replay returns a copy of the buffered output.
func (st *Stream) Replay() []byte {
	st.mu.Lock()
	defer st.mu.Unlock()
	cp := make([]byte, len(st.replay))
	copy(cp, st.replay)
	return cp
}

// Subscribe returns a channel of output chunks and an unsubscribe
// function. The channel is closed when the stream ends.
func (st *Stream) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, 256)
	st.mu.Lock()
	if st.closed {
		close(ch)
		st.mu.Unlock()
		return ch, func() {}
	}
	st.subs[ch] = struct{}{}
	st.mu.Unlock()

	unsub := func() {
		st.mu.Lock()
		if _, ok := st.subs[ch]; ok {
			delete(st.subs, ch)
		}
		st.mu.Unlock()
	}
	return ch, unsub
}

// Done returns a channel closed once the read loop has ended.
func (st *Stream) Done() <-chan struct{} { return st.done }
