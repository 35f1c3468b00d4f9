// Package screen связывает фоновые вызовы с жизнью экрана: после закрытия экрана
// их контекст отменён, а поздние результаты отбрасываются.
package screen

import (
	"context"
	"sync"

	"github.com/ignatzorin/quickfix/internal/goroutine"
)

// Scope: время жизни одного экрана.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool
}

// NewScope создаёт открытый scope, дочерний к parent.
func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

// Context возвращает контекст, который отменяется при Close.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Close отменяет все вызовы экрана. Повторный вызов безопасен.
func (s *Scope) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

// Alive сообщает, открыт ли экран.
func (s *Scope) Alive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.closed
}

// Run выполняет fn синхронно в контексте scope. alive=false означает, что экран
// закрылся, пока fn выполнялась, и результат применять нельзя.
func Run[T any](s *Scope, fn func(context.Context) (T, error)) (v T, alive bool, err error) {
	v, err = fn(s.ctx)
	return v, s.Alive(), err
}

// Go выполняет fn в отдельной горутине и передаёт результат в deliver,
// только если экран всё ещё открыт. Паника в fn приходит в deliver как ошибка.
func Go[T any](s *Scope, fn func(context.Context) (T, error), deliver func(T, error)) {
	goroutine.SafeGoWithContext(s.ctx, func(ctx context.Context) {
		v, err := fn(ctx)
		if s.Alive() {
			deliver(v, err)
		}
	}, func(err error) {
		if s.Alive() {
			var zero T
			deliver(zero, err)
		}
	})
}
