// Package id generates prefixed identifiers for lists, items and other records.
package id

import (
	"fmt"
	"strconv"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// suffixLength is the NanoID length appended to timestamped IDs.
const suffixLength = 8

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "item-V1StGXR8_Z5jdHi6B-myT").
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// Timestamped creates an ID that sorts roughly by creation time.
// Format: prefix-<base36 unix millis>-<nanoid8> (e.g., "list-lz3k9q2a-4fT_x9Qb").
// The random suffix keeps IDs unique when two are created in the same millisecond.
func Timestamped(prefix string, at time.Time) (string, error) {
	suffix, err := gonanoid.New(suffixLength)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + strconv.FormatInt(at.UnixMilli(), 36) + "-" + suffix, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use this only where failure should crash the program (e.g., seed fixtures).
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
