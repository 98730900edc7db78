package protocol_test

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xRadioAc7iv/go-depot/internal/protocol"
)

func TestEncodeDecodeResponse(t *testing.T) {
	tests := []struct {
		name   string
		status protocol.Status
		body   []byte
	}{
		{"ok response", protocol.StatusOK, []byte("ok")},
		{"nil response", protocol.StatusNil, nil},
		{"error response", protocol.StatusError, []byte("database is corrupt")},
		{"multiline response", protocol.StatusOK, []byte("line1\nline2\nline3")},
		{"binary value", protocol.StatusOK, []byte{0x01}},
		{"large response", protocol.StatusOK, make([]byte, 2048)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, server := net.Pipe()
			defer client.Close()
			defer server.Close()

			payload, err := protocol.EncodeResponse(tt.status, tt.body)
			require.NoError(t, err)

			go func() {
				_, _ = client.Write(payload)
			}()

			resp, err := protocol.DecodeResponse(server)
			require.NoError(t, err)

			assert.Equal(t, tt.status, resp.Status)
			assert.True(t, bytes.Equal(tt.body, resp.Body), "body mismatch: got %q, want %q", resp.Body, tt.body)
		})
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "ok", protocol.StatusOK.String())
	assert.Equal(t, "nil", protocol.StatusNil.String())
	assert.Equal(t, "error", protocol.StatusError.String())
	assert.Equal(t, "status(9)", protocol.Status(9).String())
}

func TestDecodeResponse_TruncatedPayload(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	payload, err := protocol.EncodeResponse(protocol.StatusOK, []byte("hello world"))
	require.NoError(t, err)

	go func() {
		_, _ = client.Write(payload[:len(payload)/2])
		client.Close()
	}()

	_, err = protocol.DecodeResponse(server)
	assert.Error(t, err)
}

func TestDecodeResponse_BlocksUntilComplete(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	payload, err := protocol.EncodeResponse(protocol.StatusOK, []byte("blocking test"))
	require.NoError(t, err)

	done := make(chan struct{})

	go func() {
		_, _ = protocol.DecodeResponse(server)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("DecodeResponse returned early")
	case <-time.After(50 * time.Millisecond):
	}

	_, _ = client.Write(payload)

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("DecodeResponse did not return after full payload")
	}
}
