package chat

import (
	"bufio"
	"io"
)

// maxLine caps a single input line. Longer lines end the input with
// bufio.ErrTooLong.
const maxLine = 1 << 20

// lineReader feeds lines from r into a channel from its own goroutine so
// the turn loop can wait on input and on cancellation together. The
// channel is closed at EOF or on a read error.
type lineReader struct {
	lines chan string
	done  chan struct{}
	err   error
}

func newLineReader(r io.Reader) *lineReader {
	lr := &lineReader{
		lines: make(chan string),
		done:  make(chan struct{}),
	}
	go func() {
		defer close(lr.lines)
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), maxLine)
		for sc.Scan() {
			select {
			case lr.lines <- sc.Text():
			case <-lr.done:
				return
			}
		}
		lr.err = sc.Err()
	}()
	return lr
}

// Err returns the read error that closed the channel, nil at EOF. It is
// only meaningful once lines has been closed.
func (lr *lineReader) Err() error {
	return lr.err
}

// stop releases a reader goroutine waiting to hand over a line. One blocked
// inside Read stays blocked until the read returns.
func (lr *lineReader) stop() {
	close(lr.done)
}
