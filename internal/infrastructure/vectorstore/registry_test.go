package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	store := NewEmbeddedStore(zaptest.NewLogger(t))
	r.Register("embedded", store)

	got, err := r.Get("embedded")
	require.NoError(t, err)
	assert.Same(t, store, got)
}

func TestRegistry_Get_NotFound(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("missing")
	assert.Error(t, err)
}
