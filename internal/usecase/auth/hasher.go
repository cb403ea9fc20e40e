package auth

// PasswordHasher abstracts the one-way password transform so the service
// does not care about the algorithm or its cost parameter.
type PasswordHasher interface {
	// Hash produces a salted, verifiable hash of the plaintext. Two calls
	// with the same input yield different outputs.
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches hash. It returns false for
	// malformed or foreign hash values instead of failing.
	Verify(plaintext, hash string) bool
}
