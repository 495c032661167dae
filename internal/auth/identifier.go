// Package auth implements identifier-based sign-in and session tokens.
//
// There are no passwords: a user signs in with an email address or a
// 10-digit mobile number, and an account is created on first use. The
// identifier is the credential, which is all this product requires.
package auth

import (
	"errors"
	"regexp"
	"strings"
)

var ErrInvalidIdentifier = errors.New("identifier must be an email or a 10-digit mobile number")

var (
	emailPattern  = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	mobilePattern = regexp.MustCompile(`^\d{10}$`)
)

// IsEmail reports whether the identifier looks like an email address.
func IsEmail(identifier string) bool {
	return emailPattern.MatchString(identifier)
}

// IsMobile reports whether the identifier is a 10-digit mobile number.
func IsMobile(identifier string) bool {
	return mobilePattern.MatchString(identifier)
}

// ValidateIdentifier checks that the identifier is a usable lookup key.
func ValidateIdentifier(identifier string) error {
	if !IsEmail(identifier) && !IsMobile(identifier) {
		return ErrInvalidIdentifier
	}
	return nil
}

// DefaultName derives a display name for an auto-created account: the local
// part for an email, otherwise the identifier itself.
func DefaultName(identifier string) string {
	if IsEmail(identifier) {
		return strings.SplitN(identifier, "@", 2)[0]
	}
	return identifier
}
