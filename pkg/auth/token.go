package auth

import "crypto/rand"

// tokenAlphabet avoids ambiguous characters so tokens survive being read
// aloud or retyped from an email client.
const tokenAlphabet = "abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateToken returns a random token of length n drawn from a mixed-case
// alphanumeric alphabet, using crypto/rand.
func GenerateToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(buf), nil
}
