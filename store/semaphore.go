package store

// Semaphore limits the number of concurrent store operations.
type Semaphore struct {
	ch chan struct{}
}

func NewSemaphore(max int) *Semaphore {
	return &Semaphore{ch: make(chan struct{}, max)}
}

func (sem *Semaphore) Lock() {
	sem.ch <- struct{}{}
}

func (sem *Semaphore) Unlock() {
	<-sem.ch
}
