package envmanager

import (
	"encoding/base64"
	"fmt"
	"io"
)

// AppKeyName is the variable written by WithNewAppKey.
const AppKeyName = "APP_KEY"

// appKeyPrefix marks a base64-encoded application key.
const appKeyPrefix = "base64:"

// KeySize returns the key length in bytes for cipher: 16 for exactly
// "AES-128-CBC", 32 for anything else, other spellings included.
func KeySize(cipher string) int {
	if cipher == "AES-128-CBC" {
		return 16
	}
	return 32
}

// GenerateAppKey reads KeySize(cipher) bytes from r and returns them as
// "base64:<encoded>".
func GenerateAppKey(r io.Reader, cipher string) (string, error) {
	key := make([]byte, KeySize(cipher))
	if _, err := io.ReadFull(r, key); err != nil {
		return "", fmt.Errorf("generate app key: %w", err)
	}

	return appKeyPrefix + base64.StdEncoding.EncodeToString(key), nil
}
