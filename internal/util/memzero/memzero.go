// Package memzero wipes sensitive byte slices.
package memzero

import "crypto/subtle"

// Zero overwrites b with zeros. The constant-time copy keeps the write
// from being elided.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
}
