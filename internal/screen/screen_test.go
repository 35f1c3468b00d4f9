package screen

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneration(t *testing.T) {
	var g Generation
	assert.False(t, g.IsCurrent(0))

	first := g.Next()
	assert.True(t, g.IsCurrent(first))

	second := g.Next()
	assert.False(t, g.IsCurrent(first))
	assert.True(t, g.IsCurrent(second))
}

func TestScope_CloseCancelsContext(t *testing.T) {
	s := NewScope(context.Background())
	require.True(t, s.Alive())

	s.Close()
	s.Close()
	assert.False(t, s.Alive())
	assert.ErrorIs(t, s.Context().Err(), context.Canceled)
}

func TestRun_ReportsClosedScope(t *testing.T) {
	s := NewScope(context.Background())

	v, ok, err := Run(s, func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	_, ok, _ = Run(s, func(context.Context) (int, error) {
		s.Close()
		return 8, nil
	})
	assert.False(t, ok)
}

func TestGo_DeliversWhileOpen(t *testing.T) {
	s := NewScope(context.Background())
	defer s.Close()

	got := make(chan int, 1)
	Go(s, func(context.Context) (int, error) { return 3, nil }, func(v int, err error) {
		got <- v
	})

	select {
	case v := <-got:
		assert.Equal(t, 3, v)
	case <-time.After(time.Second):
		t.Fatal("результат не доставлен")
	}
}

func TestGo_DropsResultAfterClose(t *testing.T) {
	s := NewScope(context.Background())
	started := make(chan struct{})
	finished := make(chan struct{})
	delivered := make(chan struct{}, 1)

	Go(s, func(ctx context.Context) (int, error) {
		close(started)
		<-ctx.Done()
		defer close(finished)
		return 0, ctx.Err()
	}, func(int, error) { delivered <- struct{}{} })

	<-started
	s.Close()
	<-finished

	select {
	case <-delivered:
		t.Fatal("результат закрытого экрана не должен доставляться")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestGo_PanicBecomesError(t *testing.T) {
	s := NewScope(context.Background())
	defer s.Close()

	errs := make(chan error, 1)
	Go(s, func(context.Context) (int, error) { panic("boom") }, func(_ int, err error) { errs <- err })

	select {
	case err := <-errs:
		assert.Error(t, err)
		assert.False(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("ошибка не доставлена")
	}
}
