package domain

// User is a quiz participant. Level is the only field mutated after signup.
type User struct {
	Username     string `json:"username"`
	PasswordHash []byte `json:"-"`
	Salt         []byte `json:"-"`
	Level        int    `json:"level"`
}

// NewUser returns a user at the first level.
func NewUser(username string, hash, salt []byte) *User {
	return &User{
		Username:     username,
		PasswordHash: hash,
		Salt:         salt,
		Level:        FirstLevel,
	}
}
