package pipe

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
		err      error
	}{
		{
			name:     "bare json",
			input:    `{"jsonrpc":"2.0","id":1,"method":"run","params":["a::t1","b::t2"]}`,
			expected: []string{"a::t1", "b::t2"},
		},
		{
			name:     "with headers",
			input:    "Content-Length: 35\r\nContent-Type: application/json\r\n\r\n{\"method\":\"run\",\"params\":[\"a::t1\"]}  ",
			expected: []string{"a::t1"},
		},
		{
			name:     "lowercase headers",
			input:    "content-length: 35\r\n\r\n{\"method\":\"run\",\"params\":[\"a::t1\"]}",
			expected: []string{"a::t1"},
		},
		{
			name:  "headers without body yet",
			input: "Content-Length: 30\r\n\r\n{\"params\":",
			err:   ErrIncomplete,
		},
		{
			name:  "half a json object",
			input: `{"params":["a"`,
			err:   ErrIncomplete,
		},
		{
			name:     "empty selection",
			input:    `{"params":[]}`,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, err := Decode([]byte(tt.input))
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err), "expected %v, got %v", tt.err, err)
				return
			}
			require.NoError(t, err)
			if len(tt.expected) == 0 {
				assert.Empty(t, ids)
				return
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestReadTestIDs(t *testing.T) {
	dir, err := os.MkdirTemp("", "tb")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "ids.sock")
	ln, err := net.Listen("unix", path)
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		// split the message across two writes
		conn.Write([]byte("Content-Length: 32\r\n\r\n{\"params\":"))
		time.Sleep(20 * time.Millisecond)
		conn.Write([]byte("[\"t.py::a\",\"t.py::b\"]}"))
	}()

	ids, err := ReadTestIDs(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"t.py::a", "t.py::b"}, ids)
}

func TestReadTestIDs_ClosedEarly(t *testing.T) {
	dir, err := os.MkdirTemp("", "tb")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "ids.sock")
	ln, err := net.Listen("unix", path)
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		conn.Write([]byte(`{"params":[`))
		conn.Close()
	}()

	_, err = ReadTestIDs(context.Background(), path)
	assert.True(t, errors.Is(err, ErrIncomplete), "expected ErrIncomplete, got %v", err)
}

func TestReadTestIDs_NoPipe(t *testing.T) {
	_, err := ReadTestIDs(context.Background(), "/nonexistent/dir/ids.sock")
	assert.Error(t, err)
}

func TestDecode_InvalidFramedBody(t *testing.T) {
	_, err := Decode([]byte("Content-Length: 10\r\n\r\n{\"params\"}"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrIncomplete), "a complete framed body should not wait for more input: %v", err)
}

func TestReadTestIDs_InvalidBodyDoesNotWait(t *testing.T) {
	dir, err := os.MkdirTemp("", "tb")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "ids.sock")
	ln, err := net.Listen("unix", path)
	require.NoError(t, err)
	defer ln.Close()

	release := make(chan struct{})
	defer close(release)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		conn.Write([]byte("Content-Length: 10\r\n\r\n{\"params\"}"))
		<-release
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := ReadTestIDs(ctx, path)
		done <- err
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrIncomplete), "got %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("reader kept waiting on a complete message")
	}
}
