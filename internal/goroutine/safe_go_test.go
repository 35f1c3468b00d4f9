package goroutine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Errorf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func TestSafeGoWithContext_RecoversPanic(t *testing.T) {
	log := &recordingLogger{}
	rh := NewRecoveryHandler(log)

	errs := make(chan error, 1)
	rh.SafeGoWithContext(context.Background(), func(context.Context) {
		panic("boom")
	}, func(err error) { errs <- err })

	select {
	case err := <-errs:
		var panicErr *PanicError
		require.ErrorAs(t, err, &panicErr)
		assert.Equal(t, "boom", panicErr.Value)
	case <-time.After(time.Second):
		t.Fatal("onPanic не вызван")
	}

	log.mu.Lock()
	defer log.mu.Unlock()
	require.Len(t, log.lines, 1)
	assert.Contains(t, log.lines[0], "boom")
}

func TestSafeGo_RunsFunction(t *testing.T) {
	done := make(chan struct{})
	NewRecoveryHandler(&recordingLogger{}).SafeGo(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("функция не выполнена")
	}
}
