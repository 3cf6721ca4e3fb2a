package crypto

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	upperChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerChars  = "abcdefghijkmnopqrstuvwxyz"
	digitChars  = "23456789"
	symbolChars = "!@#$%^&*-_=+?"

	MinPasswordLength     = 12
	MaxPasswordLength     = 64
	DefaultPasswordLength = 16
)

var ErrPasswordLength = errors.New("generated password length must be between 12 and 64")

// GeneratePassword returns a random initial password for an account created
// out of band. It holds at least one upper, lower, digit and symbol character.
// Look-alike characters (I, O, l, 0, 1) are left out since the password is
// read off a terminal.
func GeneratePassword(length int) (string, error) {
	if length < MinPasswordLength || length > MaxPasswordLength {
		return "", ErrPasswordLength
	}

	classes := []string{upperChars, lowerChars, digitChars, symbolChars}
	pool := upperChars + lowerChars + digitChars + symbolChars

	out := make([]byte, length)
	for i, class := range classes {
		ch, err := randChar(class)
		if err != nil {
			return "", err
		}
		out[i] = ch
	}
	for i := len(classes); i < length; i++ {
		ch, err := randChar(pool)
		if err != nil {
			return "", err
		}
		out[i] = ch
	}

	if err := shuffle(out); err != nil {
		return "", err
	}
	return string(out), nil
}

func randChar(charset string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
	if err != nil {
		return 0, err
	}
	return charset[n.Int64()], nil
}

// shuffle is a Fisher-Yates shuffle driven by crypto/rand.
func shuffle(data []byte) error {
	for i := len(data) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return err
		}
		data[i], data[j.Int64()] = data[j.Int64()], data[i]
	}
	return nil
}
