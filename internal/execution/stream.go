package execution

import (
	"bytes"
	"io"
	"os"
	"time"
)

// stream captures one output stream of a child in full through an os.Pipe
type stream struct {
	r, w *os.File
	buf  bytes.Buffer
	done chan struct{}
}

func newStream() (*stream, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	return &stream{r: r, w: w, done: make(chan struct{})}, nil
}

// start begins draining once the child holds its own copy of the write end
func (s *stream) start() {
	s.w.Close()
	go func() {
		defer close(s.done)
		_, _ = io.Copy(&s.buf, s.r)
	}()
}

// collect waits for EOF and returns everything read. If the write end is still
// held open after delay, the read end is closed and what was read so far is kept.
func (s *stream) collect(delay time.Duration) string {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-s.done:
	case <-timer.C:
		s.r.Close()
		<-s.done
	}
	s.r.Close()
	return s.buf.String()
}

// abort releases both ends when the child never started
func (s *stream) abort() {
	s.r.Close()
	s.w.Close()
}
