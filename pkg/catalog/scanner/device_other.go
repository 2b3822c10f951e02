//go:build !unix

package scanner

import "errors"

// deviceID is unsupported on this platform; scans proceed without the
// same-filesystem guard.
func deviceID(string) (uint64, error) {
	return 0, errors.ErrUnsupported
}
