package logging

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/m-mizutani/masq"
)

// Attribute keys that carry caller-supplied invocation data. Values logged
// under them are maps and are redacted key by key.
const (
	ParamsKey = "params"
	MetaKey   = "meta"
)

var (
	// JWT pattern: three base64 segments separated by dots
	jwtPattern = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)

	bearerPattern    = regexp.MustCompile(`(?i)^bearer\s+.+$`)
	basicAuthPattern = regexp.MustCompile(`(?i)^basic\s+.+$`)

	// Card numbers may be written with spaces or dashes between digit groups.
	cardNumberPattern = regexp.MustCompile(`^\d(?:[ -]?\d){12,18}$`)
)

// sensitiveKeywords match anywhere in a params or meta key, ignoring case, so
// "userPassword" and "X-Api-Token" are caught as well as "password".
var sensitiveKeywords = []string{
	"password", "passwd", "secret", "token", "apikey", "api_key",
	"credential", "authorization", "cookie", "session", "private",
	"cvv", "iban",
}

// DefaultRedactOptions returns the masq options used for every log record.
//
// To add project-specific redaction, combine with additional options:
//
//	opts := append(logging.DefaultRedactOptions(),
//	    masq.WithFieldName("MySecretField"),
//	)
func DefaultRedactOptions() []masq.Option {
	return []masq.Option{
		masq.WithFieldName("password"),
		masq.WithFieldName("secret"),
		masq.WithFieldName("token"),
		masq.WithFieldName("apiKey"),
		masq.WithFieldName("api_key"),
		masq.WithFieldName("accessToken"),
		masq.WithFieldName("access_token"),
		masq.WithFieldName("refreshToken"),
		masq.WithFieldName("refresh_token"),
		masq.WithFieldName("authorization"),
		masq.WithFieldName("auth"),
		masq.WithFieldName("cookie"),
		masq.WithFieldName("privateKey"),
		masq.WithFieldName("private_key"),
		masq.WithFieldPrefix("secret"),
		masq.WithFieldPrefix("private"),

		masq.WithRegex(jwtPattern),
		masq.WithRegex(bearerPattern),
		masq.WithRegex(basicAuthPattern),
	}
}

// InvocationRedactOptions returns the masq options for action params and
// propagated meta. Keys are matched by keyword and values that look like
// Luhn-valid card numbers are redacted whatever their key.
func InvocationRedactOptions() []masq.Option {
	return []masq.Option{
		masq.WithCensor(sensitiveKeyCensor),
		masq.WithFieldName("pin"),
		masq.WithFieldName("ssn"),
		masq.WithCensor(cardNumberCensor),
	}
}

func sensitiveKeyCensor(fieldName string, _ any, _ string) bool {
	if fieldName == ParamsKey || fieldName == MetaKey {
		return false
	}

	key := strings.ToLower(fieldName)
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(key, keyword) {
			return true
		}
	}

	return false
}

func cardNumberCensor(_ string, value any, _ string) bool {
	s, ok := value.(string)
	if !ok || !cardNumberPattern.MatchString(s) {
		return false
	}

	return luhnValid(s)
}

// luhnValid reports whether the digits of s pass the Luhn checksum.
// Separators are skipped.
func luhnValid(s string) bool {
	sum := 0
	double := false

	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]
		if c < '0' || c > '9' {
			continue
		}

		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}

		sum += d
		double = !double
	}

	return sum%10 == 0
}

// NewReplaceAttr creates a ReplaceAttr function for slog.HandlerOptions that
// applies DefaultRedactOptions, InvocationRedactOptions, then opts.
//
// Usage:
//
//	opts := &slog.HandlerOptions{
//	    ReplaceAttr: logging.NewReplaceAttr(),
//	}
//	handler := slog.NewJSONHandler(os.Stdout, opts)
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	allOpts := append(DefaultRedactOptions(), InvocationRedactOptions()...)
	allOpts = append(allOpts, opts...)

	return masq.New(allOpts...)
}
