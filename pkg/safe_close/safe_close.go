// Package safe_close coordinates graceful shutdown of long running goroutines
// Package safe_close 协调长期运行协程的优雅关闭
package safe_close

import (
	"sync"
)

// SafeClose broadcasts one close signal to every attached worker and waits for all of them
// SafeClose 向所有挂载的工作协程广播一次关闭信号，并等待它们全部退出
type SafeClose struct {
	mu       sync.Mutex
	closeCh  chan struct{}
	closed   bool
	err      error
	wg       sync.WaitGroup
	doneOnce sync.Once
	doneCh   chan struct{}
}

func NewSafeClose() *SafeClose {
	return &SafeClose{
		closeCh: make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Attach runs fn in a new goroutine; fn must call done when it returns
// Attach 在新协程中运行 fn；fn 退出时必须调用 done
func (s *SafeClose) Attach(fn func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	var once sync.Once
	go fn(func() { once.Do(s.wg.Done) }, s.closeCh)
}

// SendCloseSignal closes the signal channel; only the first call records err
// SendCloseSignal 关闭信号通道；只有第一次调用会记录 err
func (s *SafeClose) SendCloseSignal(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.err = err
	close(s.closeCh)
}

// IsClosed reports whether the close signal was sent
// IsClosed 是否已经发送关闭信号
func (s *SafeClose) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// WaitClosed blocks until every attached worker called done
// WaitClosed 阻塞直到所有挂载的工作协程调用 done
func (s *SafeClose) WaitClosed() error {
	s.doneOnce.Do(func() {
		go func() {
			s.wg.Wait()
			close(s.doneCh)
		}()
	})
	<-s.doneCh

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
