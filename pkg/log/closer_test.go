package log

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

type trackingCloser struct {
	closed int
	synced int
	err    error
}

func (c *trackingCloser) Sync() error  { c.synced++; return nil }
func (c *trackingCloser) Close() error { c.closed++; return c.err }

func TestCloser_Close(t *testing.T) {
	t.Parallel()

	first := &trackingCloser{err: errors.New("close failed")}
	second := &trackingCloser{}
	h := &hook{}
	c := &closer{closers: []io.Closer{first, nil, second}, hook: h}

	err := c.Close()

	assert.EqualError(t, err, "close failed")
	assert.True(t, h.closed)
	assert.Equal(t, 1, first.synced)
	assert.Equal(t, 1, second.closed, "앞선 Close 실패와 관계없이 모두 닫아야 합니다")

	assert.NoError(t, c.Close(), "두 번째 호출은 아무 것도 하지 않아야 합니다")
	assert.Equal(t, 1, first.closed)
}
