package usecase

import (
	"sync/atomic"
	"time"
)

// millisStamp выдает строго возрастающие метки в миллисекундах в пределах процесса.
// Две загрузки в одну миллисекунду получают разные ключи объектов.
type millisStamp struct {
	last atomic.Int64
	now  func() time.Time
}

func newMillisStamp(now func() time.Time) *millisStamp {
	return &millisStamp{now: now}
}

func (s *millisStamp) Next() int64 {
	for {
		prev := s.last.Load()
		next := s.now().UnixMilli()
		if next <= prev {
			next = prev + 1
		}
		if s.last.CompareAndSwap(prev, next) {
			return next
		}
	}
}
