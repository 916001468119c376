package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	pkge "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefault(t *testing.T) {
	prev := Default()
	defer SetDefault(prev)

	var out bytes.Buffer
	l := slog.New(slog.NewTextHandler(&out, nil))
	SetDefault(l)
	require.Same(t, l, Default())

	SetDefault(nil)
	require.Same(t, l, Default())

	Default().Info("send completed", "bytes", 5)
	assert.Contains(t, out.String(), "bytes=5")
}

func TestTraceAttr(t *testing.T) {
	err := pkge.Wrap(pkge.New("reset"), "sendmsg")
	attr := TraceAttr(err)
	assert.Equal(t, "trace", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	require.NotEmpty(t, attr.Value.Group())
	assert.Contains(t, attr.Value.Group()[0].Value.String(), "log_test.go")
}

func TestTraceAttrPlainError(t *testing.T) {
	attr := TraceAttr(assert.AnError)
	assert.Empty(t, attr.Value.Group())
}

func TestDiscard(t *testing.T) {
	l := Discard()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
	l.Error("dropped")
}
