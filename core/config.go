package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	SignatureMethodRSASHA1    = "RSA-SHA1"
	SignatureMethodHMACSHA1   = "HMAC-SHA1"
	SignatureMethodHMACSHA256 = "HMAC-SHA256"
	SignatureMethodPlainText  = "PLAINTEXT"
)

const (
	defaultTimeoutSeconds             = 30
	defaultMaxResponseBodyBytes int64 = 10 << 20 // 10 MiB
)

type OAuthConfig struct {
	ConsumerKey     string `koanf:"consumer_key" mapstructure:"consumer_key"`
	ConsumerSecret  string `koanf:"consumer_secret" mapstructure:"consumer_secret"`
	AccessToken     string `koanf:"access_token" mapstructure:"access_token"`
	TokenSecret     string `koanf:"token_secret" mapstructure:"token_secret"`
	SignatureMethod string `koanf:"signature_method" mapstructure:"signature_method"`
	ConnectionID    string `koanf:"connection_id" mapstructure:"connection_id"`
}

type Config struct {
	ServiceName          string      `koanf:"service_name" mapstructure:"service_name"`
	BaseURL              string      `koanf:"base_url" mapstructure:"base_url"`
	TimeoutSeconds       int         `koanf:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxResponseBodyBytes int64       `koanf:"max_response_body_bytes" mapstructure:"max_response_body_bytes"`
	OAuth                OAuthConfig `koanf:"oauth" mapstructure:"oauth"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:          "issues",
		TimeoutSeconds:       defaultTimeoutSeconds,
		MaxResponseBodyBytes: defaultMaxResponseBodyBytes,
		OAuth: OAuthConfig{
			SignatureMethod: SignatureMethodRSASHA1,
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("core: timeout_seconds must not be negative")
	}
	if c.MaxResponseBodyBytes < 0 {
		return fmt.Errorf("core: max_response_body_bytes must not be negative")
	}
	if method := strings.TrimSpace(c.OAuth.SignatureMethod); method != "" && !IsSignatureMethod(method) {
		return fmt.Errorf("core: unsupported oauth signature_method %q", method)
	}
	return nil
}

func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func IsSignatureMethod(value string) bool {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case SignatureMethodRSASHA1, SignatureMethodHMACSHA1, SignatureMethodHMACSHA256, SignatureMethodPlainText:
		return true
	default:
		return false
	}
}
