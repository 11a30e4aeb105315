package output

import (
	"bufio"
	"io"
)

type flusher interface {
	Flush() error
}

// Chain is a stack of sinks ending in a buffered writer. Writes go to the
// outermost sink; Flush drains every layer from the outside in.
type Chain struct {
	head   io.Writer
	layers []flusher
}

// NewChain starts a chain over dst with a buffered writer at the bottom.
func NewChain(dst io.Writer) *Chain {
	bw := bufio.NewWriter(dst)
	return &Chain{head: bw, layers: []flusher{bw}}
}

// Wrap pushes a new outermost sink built around the current head.
func (c *Chain) Wrap(build func(io.Writer) io.Writer) *Chain {
	w := build(c.head)
	if f, ok := w.(flusher); ok {
		c.layers = append([]flusher{f}, c.layers...)
	}
	c.head = w
	return c
}

func (c *Chain) Write(p []byte) (int, error) {
	return c.head.Write(p)
}

func (c *Chain) Flush() error {
	for _, f := range c.layers {
		if err := f.Flush(); err != nil {
			return err
		}
	}
	return nil
}
