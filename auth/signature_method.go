package auth

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-issues/core"
)

// SignatureMethod names an OAuth 1.0a signing algorithm.
type SignatureMethod string

const (
	SignatureMethodRSASHA1    SignatureMethod = core.SignatureMethodRSASHA1
	SignatureMethodHMACSHA1   SignatureMethod = core.SignatureMethodHMACSHA1
	SignatureMethodHMACSHA256 SignatureMethod = core.SignatureMethodHMACSHA256
	SignatureMethodPlainText  SignatureMethod = core.SignatureMethodPlainText

	DefaultSignatureMethod = SignatureMethodRSASHA1
)

// ParseSignatureMethod matches value case-insensitively; blank selects the
// default method.
func ParseSignatureMethod(value string) (SignatureMethod, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return DefaultSignatureMethod, nil
	}
	method := SignatureMethod(trimmed)
	if !method.Valid() {
		return "", authError(fmt.Sprintf("auth: unsupported oauth signature method %q", value))
	}
	return method, nil
}

func (m SignatureMethod) Valid() bool {
	switch m {
	case SignatureMethodRSASHA1, SignatureMethodHMACSHA1, SignatureMethodHMACSHA256, SignatureMethodPlainText:
		return true
	default:
		return false
	}
}

func (m SignatureMethod) String() string { return string(m) }

func (m SignatureMethod) usesRSA() bool {
	return m == SignatureMethodRSASHA1
}
