package adapter

import (
	"io"
	"os"
	"sync"

	"github.com/muesli/cancelreader"
)

// cancelableReader lets Close interrupt a Read blocked on a terminal or pipe.
// The underlying reader is released by whichever of Close and an in-flight
// Read finishes last.
type cancelableReader struct {
	r cancelreader.CancelReader

	mu      sync.Mutex
	reading bool
	closed  bool
}

// openStdin wraps standard input. Inputs epoll cannot watch, such as a
// redirected regular file, never block and are read as they are.
func openStdin() io.ReadCloser {
	return newCancelableReader(os.Stdin)
}

func newCancelableReader(f *os.File) io.ReadCloser {
	r, err := cancelreader.NewReader(f)
	if err != nil {
		return io.NopCloser(f)
	}
	return &cancelableReader{r: r}
}

func (c *cancelableReader) Read(p []byte) (int, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return 0, cancelreader.ErrCanceled
	}
	c.reading = true
	c.mu.Unlock()

	n, err := c.r.Read(p)

	c.mu.Lock()
	c.reading = false
	release := c.closed
	c.mu.Unlock()

	if release {
		_ = c.r.Close()
	}
	return n, err
}

func (c *cancelableReader) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.r.Cancel()
	if c.reading {
		return nil
	}
	return c.r.Close()
}
