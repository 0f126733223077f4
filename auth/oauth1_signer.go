package auth

import (
	"context"
	"crypto"
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"hash"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-issues/core"
	"github.com/google/uuid"
)

const oauthVersion = "1.0"

type OAuth1Config struct {
	ConsumerKey     string
	ConsumerSecret  string
	AccessToken     string
	TokenSecret     string
	SignatureMethod SignatureMethod
	Realm           string
	Nonce           func() string
	Now             func() time.Time
}

// OAuth1Signer signs requests for a protected resource with OAuth 1.0a
// (RFC 5849) using long-lived consumer and access token credentials.
type OAuth1Signer struct {
	config     OAuth1Config
	privateKey *rsa.PrivateKey
}

func NewOAuth1Signer(cfg OAuth1Config) (*OAuth1Signer, error) {
	cfg.ConsumerKey = strings.TrimSpace(cfg.ConsumerKey)
	cfg.AccessToken = strings.TrimSpace(cfg.AccessToken)
	if cfg.ConsumerKey == "" {
		return nil, authError("auth: oauth consumer key is required")
	}
	if cfg.SignatureMethod == "" {
		cfg.SignatureMethod = DefaultSignatureMethod
	}
	if !cfg.SignatureMethod.Valid() {
		return nil, authError(fmt.Sprintf("auth: unsupported oauth signature method %q", cfg.SignatureMethod))
	}
	if cfg.Nonce == nil {
		cfg.Nonce = func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") }
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}

	signer := &OAuth1Signer{config: cfg}
	if cfg.SignatureMethod.usesRSA() {
		key, err := ParseRSAPrivateKey(cfg.ConsumerSecret)
		if err != nil {
			return nil, err
		}
		signer.privateKey = key
	}
	return signer, nil
}

func NewOAuth1SignerFromConfig(cfg core.OAuthConfig) (*OAuth1Signer, error) {
	method, err := ParseSignatureMethod(cfg.SignatureMethod)
	if err != nil {
		return nil, err
	}
	return NewOAuth1Signer(OAuth1Config{
		ConsumerKey:     cfg.ConsumerKey,
		ConsumerSecret:  cfg.ConsumerSecret,
		AccessToken:     cfg.AccessToken,
		TokenSecret:     cfg.TokenSecret,
		SignatureMethod: method,
	})
}

func (s *OAuth1Signer) Method() SignatureMethod {
	if s == nil {
		return ""
	}
	return s.config.SignatureMethod
}

// Authenticate computes the signature over the request method, the
// query-free request URL and params plus the oauth protocol parameters, and
// sets the Authorization header.
func (s *OAuth1Signer) Authenticate(_ context.Context, req *http.Request, params []core.Parameter) error {
	if s == nil {
		return authError("auth: oauth signer is nil")
	}
	if req == nil || req.URL == nil {
		return authError("auth: http request is required")
	}

	protocol := s.protocolParameters()
	baseString := signatureBaseString(req.Method, req.URL, append(append([]core.Parameter{}, params...), protocol...))
	signature, err := s.sign(baseString)
	if err != nil {
		return err
	}
	protocol = append(protocol, core.Parameter{Name: "oauth_signature", Value: signature})
	req.Header.Set("Authorization", authorizationHeader(s.config.Realm, protocol))
	return nil
}

func (s *OAuth1Signer) protocolParameters() []core.Parameter {
	params := []core.Parameter{
		{Name: "oauth_consumer_key", Value: s.config.ConsumerKey},
		{Name: "oauth_nonce", Value: s.config.Nonce()},
		{Name: "oauth_signature_method", Value: string(s.config.SignatureMethod)},
		{Name: "oauth_timestamp", Value: strconv.FormatInt(s.config.Now().Unix(), 10)},
		{Name: "oauth_version", Value: oauthVersion},
	}
	if s.config.AccessToken != "" {
		params = append(params, core.Parameter{Name: "oauth_token", Value: s.config.AccessToken})
	}
	return params
}

func (s *OAuth1Signer) sign(baseString string) (string, error) {
	switch s.config.SignatureMethod {
	case SignatureMethodHMACSHA1:
		return hmacSignature(sha1.New, s.signingKey(), baseString), nil
	case SignatureMethodHMACSHA256:
		return hmacSignature(sha256.New, s.signingKey(), baseString), nil
	case SignatureMethodPlainText:
		return s.signingKey(), nil
	case SignatureMethodRSASHA1:
		digest := sha1.Sum([]byte(baseString))
		signed, err := rsa.SignPKCS1v15(rand.Reader, s.privateKey, crypto.SHA1, digest[:])
		if err != nil {
			return "", authWrapError(err, "auth: rsa-sha1 signing failed")
		}
		return base64.StdEncoding.EncodeToString(signed), nil
	default:
		return "", authError(fmt.Sprintf("auth: unsupported oauth signature method %q", s.config.SignatureMethod))
	}
}

func (s *OAuth1Signer) signingKey() string {
	return PercentEncode(s.config.ConsumerSecret) + "&" + PercentEncode(s.config.TokenSecret)
}

func hmacSignature(fn func() hash.Hash, key string, baseString string) string {
	mac := hmac.New(fn, []byte(key))
	mac.Write([]byte(baseString))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// signatureBaseString builds METHOD&base-uri&normalized-params as defined by
// RFC 5849 section 3.4.1.
func signatureBaseString(method string, requestURL *url.URL, params []core.Parameter) string {
	return strings.Join([]string{
		PercentEncode(strings.ToUpper(strings.TrimSpace(method))),
		PercentEncode(baseStringURI(requestURL)),
		PercentEncode(normalizeParameters(params)),
	}, "&")
}

func baseStringURI(requestURL *url.URL) string {
	scheme := strings.ToLower(requestURL.Scheme)
	hostname := strings.ToLower(requestURL.Hostname())
	port := requestURL.Port()
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		port = ""
	}
	var host string
	switch {
	case port != "":
		host = net.JoinHostPort(hostname, port)
	case strings.Contains(hostname, ":"):
		// bare IPv6 literal
		host = "[" + hostname + "]"
	default:
		host = hostname
	}
	path := requestURL.EscapedPath()
	if path == "" {
		path = "/"
	}
	return scheme + "://" + host + path
}

func normalizeParameters(params []core.Parameter) string {
	type pair struct {
		name  string
		value string
	}
	pairs := make([]pair, 0, len(params))
	for _, param := range params {
		if param.Name == "oauth_signature" {
			continue
		}
		pairs = append(pairs, pair{name: PercentEncode(param.Name), value: PercentEncode(param.Value)})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].name == pairs[j].name {
			return pairs[i].value < pairs[j].value
		}
		return pairs[i].name < pairs[j].name
	})
	parts := make([]string, 0, len(pairs))
	for _, item := range pairs {
		parts = append(parts, item.name+"="+item.value)
	}
	return strings.Join(parts, "&")
}

func authorizationHeader(realm string, protocol []core.Parameter) string {
	parts := []string{fmt.Sprintf("realm=%q", realm)}
	for _, param := range protocol {
		parts = append(parts, PercentEncode(param.Name)+`="`+PercentEncode(param.Value)+`"`)
	}
	return "OAuth " + strings.Join(parts, ", ")
}

// PercentEncode applies the RFC 3986 unreserved-set encoding required by
// OAuth 1.0a. Spaces become %20, never '+'.
func PercentEncode(value string) string {
	var b strings.Builder
	for i := 0; i < len(value); i++ {
		c := value[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	default:
		return false
	}
}

// ParseRSAPrivateKey reads a PEM encoded PKCS#1 or PKCS#8 RSA private key.
func ParseRSAPrivateKey(pemData string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(strings.TrimSpace(pemData)))
	if block == nil {
		return nil, authError("auth: consumer secret must be a PEM encoded rsa private key")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, authError("auth: parse rsa private key: " + err.Error())
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, authError(fmt.Sprintf("auth: private key type %T is not rsa", parsed))
	}
	return key, nil
}

var _ core.Authenticator = (*OAuth1Signer)(nil)
