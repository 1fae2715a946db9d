package dlog_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-memrepo/memrepo/dlog"
)

func TestNewNoop(t *testing.T) {
	t.Parallel()

	logger := dlog.NewNoop()

	assert.NotPanics(t, func() {
		logger.InfoContext(context.Background(), "some message", "key", "value")
	})
}

func TestNewTest(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := dlog.NewTest(buf)

	logger.DebugContext(context.Background(), "resolved", "identifier", "products")

	assert.Equal(t, "level=DEBUG msg=resolved identifier=products\n", buf.String())
}

func TestNewDebug(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := dlog.NewDebug(buf)

	logger.DebugContext(context.Background(), "loading")

	assert.Contains(t, buf.String(), "msg=loading")
}
