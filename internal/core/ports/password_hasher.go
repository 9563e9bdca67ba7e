package ports

// PasswordHasher is a salted key-derivation primitive.
type PasswordHasher interface {
	NewSalt() ([]byte, error)
	Hash(password string, salt []byte) ([]byte, error)
}
