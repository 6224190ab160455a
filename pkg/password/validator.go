package password

import "fmt"

// MinLength is the minimum accepted plaintext password length
const MinLength = 6

// Validate checks a plaintext password against the account policy
func Validate(password string) error {
	if len(password) < MinLength {
		return fmt.Errorf("password must be at least %d characters long", MinLength)
	}
	return nil
}
