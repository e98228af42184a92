package logsvc

import (
	"bytes"
	"context"
	"log"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/rollbar/rollbar-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/user"
)

func TestItems(t *testing.T) {
	errBoom := errors.New("boom")
	extras := map[string]interface{}{"path": "/v1/courses"}
	awe := user.User{ID: 7, Username: "awe", Email: "awe@test.cd"}

	got := items("failed", []interface{}{errBoom, awe, extras, user.User{ID: 8}})
	require.Len(t, got, 4)
	assert.Equal(t, []interface{}{"failed", errBoom, extras}, got[:3])

	ctx, ok := got[3].(context.Context)
	require.True(t, ok)
	person, ok := rollbar.PersonFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, &rollbar.Person{Id: "7", Username: "awe", Email: "awe@test.cd"}, person)

	assert.Equal(t, []interface{}{"plain"}, items("plain", nil))
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRollbarLogger_concurrent(t *testing.T) {
	out := new(syncBuffer)
	logger := NewRollbarLogger(log.New(out, "", 0), core.NewTestConfig())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			usr := user.User{ID: id, Username: "user"}
			logger.Info("request", usr)
			logger.Error("failed", errors.New("boom"), usr)
			logger.Warn("anonymous")
		}(i + 1)
	}
	wg.Wait()
	logger.Close()

	lines := out.String()
	assert.Equal(t, 20, strings.Count(lines, "[info] request\n"))
	assert.Equal(t, 20, strings.Count(lines, "[error] failed\n"))
	assert.Equal(t, 20, strings.Count(lines, "[warning] anonymous\n"))
}
