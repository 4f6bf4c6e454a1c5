package highlight

import "sync"

// Counter hands out highlight identifiers 1, 2, 3, ... The zero value
// is ready to use. Reset starts again from 1.
type Counter struct {
	mu   sync.Mutex
	last int
}

func (c *Counter) Next() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last++
	return c.last
}

// Last is the most recently issued identifier, 0 if none since Reset.
func (c *Counter) Last() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func (c *Counter) Reset() {
	c.mu.Lock()
	c.last = 0
	c.mu.Unlock()
}
