package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
)

var errInterrupted = errors.New("input interrupted")

type lineResult struct {
	text string
	err  error
}

// lineReader scans one line per request so that a prompt can be abandoned
// (for example when an exam times out) and the pending line is handed to
// the next read instead of being lost.
type lineReader struct {
	want    chan struct{}
	lines   chan lineResult
	pending bool
}

func newLineReader(in io.Reader) *lineReader {
	lr := &lineReader{
		want:  make(chan struct{}),
		lines: make(chan lineResult, 1),
	}
	go lr.loop(bufio.NewScanner(in))
	return lr
}

func (lr *lineReader) loop(sc *bufio.Scanner) {
	for range lr.want {
		if sc.Scan() {
			lr.lines <- lineResult{text: sc.Text()}
			continue
		}
		err := sc.Err()
		if err == nil {
			err = io.EOF
		}
		lr.lines <- lineResult{err: err}
	}
}

// read returns the next trimmed line. It gives up with errInterrupted when
// interrupt is closed; the line, once typed, goes to the next read.
func (lr *lineReader) read(ctx context.Context, interrupt <-chan struct{}) (string, error) {
	if !lr.pending {
		select {
		case lr.want <- struct{}{}:
			lr.pending = true
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	select {
	case res := <-lr.lines:
		lr.pending = false
		return strings.TrimSpace(res.text), res.err
	case <-ctx.Done():
		return "", ctx.Err()
	case <-interrupt:
		return "", errInterrupted
	}
}

// idle reports whether no line request is outstanding, so the input can be
// read directly.
func (lr *lineReader) idle() bool {
	return !lr.pending
}

func (lr *lineReader) close() {
	close(lr.want)
}
