package scheduler

import (
	conq "github.com/enriquebris/goconcurrentqueue"
)

// task is one index of a fan-out loop.
type task struct {
	index int
}

type conqFIFO struct {
	conq.FIFO
}

func newConqFIFO() *conqFIFO {
	return &conqFIFO{
		FIFO: *conq.NewFIFO(),
	}
}

func (c *conqFIFO) Enqueue(t *task) error {
	return c.FIFO.Enqueue(t)
}

func (c *conqFIFO) Dequeue() (*task, error) {
	tmp, err := c.FIFO.Dequeue()
	if err != nil {
		return nil, err
	}
	return tmp.(*task), nil
}

func (c *conqFIFO) GetLen() int {
	return c.FIFO.GetLen()
}
