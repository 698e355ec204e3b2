// SPDX-License-Identifier: MPL-2.0

package cueutil

import "fmt"

// DefaultMaxFileSize is the largest document accepted by the loaders (8 MiB).
const DefaultMaxFileSize int64 = 8 << 20

// CheckFileSize verifies that data does not exceed the specified maximum size.
// A non-positive maxSize disables the check.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if maxSize <= 0 {
		return nil
	}
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}
