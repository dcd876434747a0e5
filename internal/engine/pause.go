package engine

import (
	"bufio"
	"context"
	"io"
	"sync"
)

// Resumer supplies the external resume signal for the pause-on-error
// affordance. The engine blocks on Resume after a failed step when
// PauseOnError is set; how the signal arrives is the host's concern.
type Resumer interface {
	Resume(ctx context.Context) error
}

// ManualResumer unblocks Resume when Signal is called. Signal is safe to
// call more than once.
type ManualResumer struct {
	once sync.Once
	ch   chan struct{}
}

// NewManualResumer creates an unsignaled resumer.
func NewManualResumer() *ManualResumer {
	return &ManualResumer{ch: make(chan struct{})}
}

// Signal releases every pending and future Resume call.
func (m *ManualResumer) Signal() {
	m.once.Do(func() { close(m.ch) })
}

// Resume blocks until Signal is called or ctx is done.
func (m *ManualResumer) Resume(ctx context.Context) error {
	select {
	case <-m.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReaderResumer resumes on the next line read from r. The CLI wires stdin
// here so an operator can inspect the paused browser and press enter.
type ReaderResumer struct {
	r io.Reader
}

// NewReaderResumer creates a resumer reading from r.
func NewReaderResumer(r io.Reader) *ReaderResumer {
	return &ReaderResumer{r: r}
}

// Resume blocks until a line arrives or ctx is done.
func (rr *ReaderResumer) Resume(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(rr.r).ReadString('\n')
		if err == io.EOF {
			err = nil
		}
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
