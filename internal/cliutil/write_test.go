package cliutil

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWritef(t *testing.T) {
	var buf bytes.Buffer
	Writef(&buf, "%s: %d cases", "Status", 3)
	assert.Equal(t, "Status: 3 cases", buf.String())
}

func TestWritef_WriteError(t *testing.T) {
	var reported bytes.Buffer
	prev := errOut
	errOut = &reported
	t.Cleanup(func() { errOut = prev })

	Writef(failingWriter{}, "lost")
	assert.Equal(t, "write error: disk full\n", reported.String())
}

func TestMark(t *testing.T) {
	assert.Equal(t, "✓", Mark(true))
	assert.Equal(t, "✗", Mark(false))
}

func TestCount(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 errors"},
		{1, "1 error"},
		{7, "7 errors"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Count(tt.n, "error"))
	}
}
