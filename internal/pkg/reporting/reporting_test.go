package reporting

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithoutTokenIsNop(t *testing.T) {
	r := New(Config{Environment: "test"})
	assert.IsType(t, Nop{}, r)

	r.Report(context.Background(), errors.New("boom"), nil)
	assert.NoError(t, r.Close())
}

func TestNewWithToken(t *testing.T) {
	r := New(Config{Token: "token", Environment: "test"})
	_, ok := r.(*rollbarReporter)
	assert.True(t, ok)
}
