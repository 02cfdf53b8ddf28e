package emailsync

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"howett.net/plist"
)

var ErrKeyNotFound = errors.New("key not found in property list")

// ReadPlistValue returns the string stored under key in the top-level
// dictionary of an XML, binary or OpenStep property list.
func ReadPlistValue(path, key string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	var root map[string]any
	if _, err := plist.Unmarshal(data, &root); err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}

	raw, ok := root[key]
	if !ok {
		return "", fmt.Errorf("%s: %w: %s", path, ErrKeyNotFound, key)
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s: %s is %T, want string", path, key, raw)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%s: %s is empty", path, key)
	}
	return value, nil
}
