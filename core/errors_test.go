package core

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	base := errors.New("short buffer")
	err := WrapError(base, EINVALID, "cannot create font from %d bytes", 3)
	assert.Equal(t, EINVALID, Code(err))
	assert.Equal(t, "cannot create font from 3 bytes", UserMessage(err))
	assert.True(t, errors.Is(err, base), "wrapped error should stay in chain")
	assert.Equal(t, NOERROR, Code(nil))
	assert.Equal(t, EINTERNAL, Code(base))
	assert.Equal(t, "", UserMessage(nil))
}

func TestErrorWithNil(t *testing.T) {
	err := ErrorWithCode(nil, EMISSING)
	assert.Error(t, err)
	assert.Equal(t, EMISSING, Code(err))
	assert.Equal(t, "not found", UserMessage(err))
}

func TestPrecondition(t *testing.T) {
	assert.NotPanics(t, func() { Precondition(true, "never") })
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok {
			t.Fatalf("expected panic with error, got %v", r)
		}
		assert.Equal(t, EPRECOND, Code(err))
		assert.Equal(t, "range 3..9 out of bounds", UserMessage(err))
	}()
	Precondition(false, "range %d..%d out of bounds", 3, 9)
}

func TestFprintUserError(t *testing.T) {
	var buf bytes.Buffer
	FprintUserError(&buf, Error(EMISSING, "font %q not found", "Gentium"))
	assert.Equal(t, "[122] font \"Gentium\" not found\n", buf.String())
	buf.Reset()
	FprintUserError(&buf, errors.New("plain"))
	assert.Equal(t, "Error: plain\n", buf.String())
}
