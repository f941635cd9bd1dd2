package errs

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ztrue/tracerr"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: KindUnknown},
		{name: "plain error", err: errors.New("boom"), want: KindUnknown},
		{name: "direct", err: Parse("Chapter x", errors.New("bad")), want: KindParse},
		{name: "wrapped with fmt", err: fmt.Errorf("outer: %w", MissingFile("a.pdf", fs.ErrNotExist)), want: KindMissingFile},
		{name: "wrapped with tracerr", err: tracerr.Wrap(Integrity("vol 1", errors.New("short"))), want: KindIntegrity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := Newf(KindIO, "Chapter 1 - A", "cannot write %s", "out.pdf")
	assert.Equal(t, "io error: Chapter 1 - A: cannot write out.pdf", err.Error())

	err = Configuration("", errors.New("root is empty"))
	assert.Equal(t, "configuration error: root is empty", err.Error())
}

func TestUnwrap(t *testing.T) {
	err := MissingFile("01.jpg", fs.ErrNotExist)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.True(t, Is(err, KindMissingFile))
	assert.False(t, Is(nil, KindMissingFile))
}
