// Package auth guards parent-only operations with the family PIN.
package auth

import "crypto/subtle"

// VerifyPin compares an attempt against the current PIN in constant time.
// The length check is not constant time, but PIN length is fixed policy, not
// a secret.
func VerifyPin(current, attempt string) bool {
	if len(current) != len(attempt) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(current), []byte(attempt)) == 1
}
