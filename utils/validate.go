package utils

import "regexp"

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// OrderNumberPattern matches order numbers issued by this system.
var OrderNumberPattern = regexp.MustCompile(`^LND[0-9]{8}$`)

// IsValidPhone accepts exactly 10 digits.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// IsValidPassword enforces the minimum signup password length.
func IsValidPassword(password string) bool {
	return len(password) >= 8
}
