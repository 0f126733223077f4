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
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-issues/core"
)

var fixedNow = time.Unix(137131201, 0).UTC()

func fixedNonce() string { return "7d8f3e4a" }

func TestSignatureBaseString_RFC5849Example(t *testing.T) {
	requestURL, err := url.Parse("http://example.com/request?b5=%3D%253D&a3=a&c%40=&a2=r%20b")
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	query, err := core.SplitQuery(requestURL.RawQuery)
	if err != nil {
		t.Fatalf("split query: %v", err)
	}
	params := append(query,
		core.Parameter{Name: "c2", Value: "", Type: core.ParameterTypeBody},
		core.Parameter{Name: "a3", Value: "2 q", Type: core.ParameterTypeBody},
		core.Parameter{Name: "oauth_consumer_key", Value: "9djdj82h48djs9d2"},
		core.Parameter{Name: "oauth_token", Value: "kkk9d7dh3k39sjv7"},
		core.Parameter{Name: "oauth_signature_method", Value: "HMAC-SHA1"},
		core.Parameter{Name: "oauth_timestamp", Value: "137131201"},
		core.Parameter{Name: "oauth_nonce", Value: "7d8f3e4a"},
	)

	got := signatureBaseString("post", requestURL, params)
	want := "POST&http%3A%2F%2Fexample.com%2Frequest&a2%3Dr%2520b%26a3%3D2%2520q" +
		"%26a3%3Da%26b5%3D%253D%25253D%26c%2540%3D%26c2%3D%26oauth_consumer_key%3D9dj" +
		"dj82h48djs9d2%26oauth_nonce%3D7d8f3e4a%26oauth_signature_method%3DHMAC-SHA1" +
		"%26oauth_timestamp%3D137131201%26oauth_token%3Dkkk9d7dh3k39sjv7"
	if got != want {
		t.Fatalf("unexpected base string\nwant %s\n got %s", want, got)
	}
}

func TestBaseStringURI_NormalizesSchemeHostAndDefaultPort(t *testing.T) {
	cases := map[string]string{
		"HTTP://Example.COM:80/r%20v/X?id=123": "http://example.com/r%20v/X",
		"https://www.example.net:8080/?q=1":    "https://www.example.net:8080/",
		"https://example.com:443":              "https://example.com/",
		"http://[::1]:8080/rest/api/2/issue":   "http://[::1]:8080/rest/api/2/issue",
		"https://[FE80::1]:443/issue":          "https://[fe80::1]/issue",
		"http://[::1]/issue":                   "http://[::1]/issue",
	}
	for raw, want := range cases {
		parsed, err := url.Parse(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got := baseStringURI(parsed); got != want {
			t.Fatalf("base uri for %q: want %q, got %q", raw, want, got)
		}
	}
}

func TestPercentEncode(t *testing.T) {
	cases := map[string]string{
		"abcABC123-._~": "abcABC123-._~",
		"a b":           "a%20b",
		"=%3D":          "%3D%253D",
		"c@":            "c%40",
		"ü":             "%C3%BC",
	}
	for input, want := range cases {
		if got := PercentEncode(input); got != want {
			t.Fatalf("encode %q: want %q, got %q", input, want, got)
		}
	}
}

func TestParseSignatureMethod(t *testing.T) {
	method, err := ParseSignatureMethod("")
	if err != nil || method != SignatureMethodRSASHA1 {
		t.Fatalf("expected RSA-SHA1 default, got %q err=%v", method, err)
	}
	method, err = ParseSignatureMethod("hmac-sha256")
	if err != nil || method != SignatureMethodHMACSHA256 {
		t.Fatalf("expected HMAC-SHA256, got %q err=%v", method, err)
	}
	if _, err := ParseSignatureMethod("MD5"); err == nil {
		t.Fatalf("expected unsupported method error")
	}
}

func TestOAuth1Signer_HMACSignsDeclaredParameters(t *testing.T) {
	for _, tc := range []struct {
		method SignatureMethod
	}{
		{method: SignatureMethodHMACSHA1},
		{method: SignatureMethodHMACSHA256},
	} {
		t.Run(tc.method.String(), func(t *testing.T) {
			signer, err := NewOAuth1Signer(OAuth1Config{
				ConsumerKey:     "consumer",
				ConsumerSecret:  "consumer secret",
				AccessToken:     "token",
				TokenSecret:     "token&secret",
				SignatureMethod: tc.method,
				Nonce:           fixedNonce,
				Now:             func() time.Time { return fixedNow },
			})
			if err != nil {
				t.Fatalf("new signer: %v", err)
			}

			req, _ := http.NewRequest(http.MethodGet, "https://tracker.example.com/rest/api/2/issue", nil)
			params := []core.Parameter{
				{Name: "expand", Value: "changelog", Type: core.ParameterTypeQuery},
				{Name: "foo", Value: "bar", Type: core.ParameterTypeQuery},
			}
			if err := signer.Authenticate(context.Background(), req, params); err != nil {
				t.Fatalf("authenticate: %v", err)
			}

			header := parseAuthorizationHeader(t, req.Header.Get("Authorization"))
			if header["oauth_signature_method"] != string(tc.method) {
				t.Fatalf("unexpected signature method: %q", header["oauth_signature_method"])
			}
			if header["oauth_token"] != "token" || header["oauth_consumer_key"] != "consumer" {
				t.Fatalf("unexpected credentials in header: %#v", header)
			}

			base := signatureBaseString(http.MethodGet, req.URL, append(params,
				core.Parameter{Name: "oauth_consumer_key", Value: "consumer"},
				core.Parameter{Name: "oauth_nonce", Value: "7d8f3e4a"},
				core.Parameter{Name: "oauth_signature_method", Value: string(tc.method)},
				core.Parameter{Name: "oauth_timestamp", Value: "137131201"},
				core.Parameter{Name: "oauth_version", Value: "1.0"},
				core.Parameter{Name: "oauth_token", Value: "token"},
			))
			if !strings.Contains(base, "expand%3Dchangelog") || !strings.Contains(base, "foo%3Dbar") {
				t.Fatalf("expected declared parameters in base string: %s", base)
			}
			hashFn := sha1.New
			if tc.method == SignatureMethodHMACSHA256 {
				hashFn = sha256.New
			}
			mac := hmac.New(hashFn, []byte("consumer%20secret&token%26secret"))
			mac.Write([]byte(base))
			want := base64.StdEncoding.EncodeToString(mac.Sum(nil))
			if header["oauth_signature"] != want {
				t.Fatalf("unexpected signature: want %q, got %q", want, header["oauth_signature"])
			}
		})
	}
}

func TestOAuth1Signer_SignatureChangesWithParameters(t *testing.T) {
	signer, err := NewOAuth1Signer(OAuth1Config{
		ConsumerKey:     "consumer",
		ConsumerSecret:  "secret",
		SignatureMethod: SignatureMethodHMACSHA1,
		Nonce:           fixedNonce,
		Now:             func() time.Time { return fixedNow },
	})
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	sign := func(params []core.Parameter) string {
		req, _ := http.NewRequest(http.MethodGet, "https://tracker.example.com/issue", nil)
		if err := signer.Authenticate(context.Background(), req, params); err != nil {
			t.Fatalf("authenticate: %v", err)
		}
		return parseAuthorizationHeader(t, req.Header.Get("Authorization"))["oauth_signature"]
	}

	plain := sign(nil)
	again := sign(nil)
	withParam := sign([]core.Parameter{{Name: "expand", Value: "changelog", Type: core.ParameterTypeQuery}})
	if plain != again {
		t.Fatalf("expected deterministic signature for fixed nonce and clock")
	}
	if plain == withParam {
		t.Fatalf("expected signature to cover declared parameters")
	}
}

func TestOAuth1Signer_PlainText(t *testing.T) {
	signer, err := NewOAuth1Signer(OAuth1Config{
		ConsumerKey:     "consumer",
		ConsumerSecret:  "s&c",
		TokenSecret:     "t s",
		SignatureMethod: SignatureMethodPlainText,
	})
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	req, _ := http.NewRequest(http.MethodGet, "https://tracker.example.com/issue", nil)
	if err := signer.Authenticate(context.Background(), req, nil); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	header := parseAuthorizationHeader(t, req.Header.Get("Authorization"))
	if header["oauth_signature"] != "s%26c&t%20s" {
		t.Fatalf("unexpected plaintext signature: %q", header["oauth_signature"])
	}
}

func TestOAuth1Signer_RSASHA1VerifiesWithPublicKey(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	pemKey := string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}))

	signer, err := NewOAuth1SignerFromConfig(core.OAuthConfig{
		ConsumerKey:    "consumer",
		ConsumerSecret: pemKey,
		AccessToken:    "token",
	})
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	if signer.Method() != SignatureMethodRSASHA1 {
		t.Fatalf("expected RSA-SHA1 default, got %q", signer.Method())
	}
	signer.config.Nonce = fixedNonce
	signer.config.Now = func() time.Time { return fixedNow }

	req, _ := http.NewRequest(http.MethodPost, "https://tracker.example.com/rest/api/2/issue", nil)
	params := []core.Parameter{{Name: "expand", Value: "names", Type: core.ParameterTypeQuery}}
	if err := signer.Authenticate(context.Background(), req, params); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	header := parseAuthorizationHeader(t, req.Header.Get("Authorization"))
	signature, err := base64.StdEncoding.DecodeString(header["oauth_signature"])
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}

	base := signatureBaseString(http.MethodPost, req.URL, append(params,
		core.Parameter{Name: "oauth_consumer_key", Value: "consumer"},
		core.Parameter{Name: "oauth_nonce", Value: "7d8f3e4a"},
		core.Parameter{Name: "oauth_signature_method", Value: "RSA-SHA1"},
		core.Parameter{Name: "oauth_timestamp", Value: "137131201"},
		core.Parameter{Name: "oauth_version", Value: "1.0"},
		core.Parameter{Name: "oauth_token", Value: "token"},
	))
	digest := sha1.Sum([]byte(base))
	if err := rsa.VerifyPKCS1v15(&key.PublicKey, crypto.SHA1, digest[:], signature); err != nil {
		t.Fatalf("verify signature: %v", err)
	}
}

func TestNewOAuth1Signer_Validation(t *testing.T) {
	if _, err := NewOAuth1Signer(OAuth1Config{}); err == nil {
		t.Fatalf("expected consumer key error")
	}
	if _, err := NewOAuth1Signer(OAuth1Config{ConsumerKey: "ck", SignatureMethod: "MD5"}); err == nil {
		t.Fatalf("expected unsupported method error")
	}
	if _, err := NewOAuth1Signer(OAuth1Config{ConsumerKey: "ck", ConsumerSecret: "not-a-pem"}); err == nil {
		t.Fatalf("expected rsa key error for default method")
	}
}

func parseAuthorizationHeader(t *testing.T, header string) map[string]string {
	t.Helper()
	if !strings.HasPrefix(header, "OAuth ") {
		t.Fatalf("expected OAuth authorization header, got %q", header)
	}
	out := map[string]string{}
	for _, part := range strings.Split(strings.TrimPrefix(header, "OAuth "), ", ") {
		name, quoted, ok := strings.Cut(part, "=")
		if !ok {
			t.Fatalf("malformed header part %q", part)
		}
		value, err := url.PathUnescape(strings.Trim(quoted, `"`))
		if err != nil {
			t.Fatalf("unescape %q: %v", quoted, err)
		}
		out[name] = value
	}
	return out
}
