// Package pathutil parses and normalizes request paths.
package pathutil

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidID is returned when the ID in the URL path is invalid.
var ErrInvalidID = errors.New("invalid id")

// ExtractID parses the positive integer that follows prefix in path.
//
//	id, err := ExtractID("/publishers/12", "/publishers/")
//	// 12, nil
func ExtractID(path, prefix string) (int64, error) {
	if !strings.HasPrefix(path, prefix) {
		return 0, ErrInvalidID
	}
	id, err := strconv.ParseInt(strings.TrimSuffix(path[len(prefix):], "/"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
