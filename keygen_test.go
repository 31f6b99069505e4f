package envmanager

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
	"testing/iotest"
)

func TestKeySize(t *testing.T) {
	tests := []struct {
		cipher string
		want   int
	}{
		{"AES-128-CBC", 16},
		{"aes-128-cbc", 32},
		{"AES-256-CBC", 32},
		{"AES-256-GCM", 32},
		{"", 32},
	}

	for _, tt := range tests {
		if got := KeySize(tt.cipher); got != tt.want {
			t.Errorf("KeySize(%q) = %d, want %d", tt.cipher, got, tt.want)
		}
	}
}

func TestGenerateAppKey(t *testing.T) {
	seed := bytes.Repeat([]byte{0xAB}, 32)

	key, err := GenerateAppKey(bytes.NewReader(seed), "AES-256-CBC")
	if err != nil {
		t.Fatalf("GenerateAppKey failed: %v", err)
	}
	if !strings.HasPrefix(key, "base64:") {
		t.Fatalf("key %q is missing the base64: prefix", key)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(key, "base64:"))
	if err != nil {
		t.Fatalf("key payload is not valid base64: %v", err)
	}
	if !bytes.Equal(raw, seed) {
		t.Errorf("decoded key = %x, want %x", raw, seed)
	}
}

func TestGenerateAppKey_Random(t *testing.T) {
	m, _ := newTestManager(t)

	a, err := GenerateAppKey(m.opts.random, m.Cipher())
	if err != nil {
		t.Fatalf("GenerateAppKey failed: %v", err)
	}
	b, _ := GenerateAppKey(m.opts.random, m.Cipher())
	if a == b {
		t.Error("two generated keys should differ")
	}
}

func TestGenerateAppKey_ReaderError(t *testing.T) {
	if _, err := GenerateAppKey(iotest.ErrReader(iotest.ErrTimeout), "AES-128-CBC"); err == nil {
		t.Error("expected an error from a failing reader")
	}
}
