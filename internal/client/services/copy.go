package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/atotto/clipboard"
)

// CopiedFor is how long the "copied" indicator stays on after a copy.
const CopiedFor = 2 * time.Second

type stopper interface {
	Stop() bool
}

var (
	writeClipboard = clipboard.WriteAll
	afterFunc      = func(d time.Duration, f func()) stopper { return time.AfterFunc(d, f) }
)

// CopyIndicator writes text to the system clipboard and keeps a transient
// "copied" flag. The flag clears CopiedFor after the first copy of a run;
// copying again while the flag is on does not extend it.
type CopyIndicator struct {
	mu     sync.Mutex
	copied bool
	timer  stopper
	gen    uint64
}

func (c *CopyIndicator) Copy(text string) error {
	if err := writeClipboard(text); err != nil {
		return fmt.Errorf("%w: %w", ErrCopyFailed, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.copied = true
	if c.timer != nil {
		return nil
	}
	c.gen++
	gen := c.gen
	c.timer = afterFunc(CopiedFor, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gen == gen {
			c.copied = false
			c.timer = nil
		}
	})
	return nil
}

func (c *CopyIndicator) Copied() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copied
}

// Stop cancels a pending revert and clears the flag.
func (c *CopyIndicator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
	c.copied = false
}
