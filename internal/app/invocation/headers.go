package invocation

// Propagation headers. Each carries one meta key between services.
const (
	HeaderCorrelationID  = "X-Correlation-ID"
	HeaderFromService    = "X-From-Service"
	HeaderFromInstanceID = "X-From-Instance-ID"
	HeaderCallLevel      = "X-Call-Level"
)

// Headers maps each propagated meta key to its header.
var Headers = map[string]string{
	KeyCorrelationID:  HeaderCorrelationID,
	KeyFrom:           HeaderFromService,
	KeyFromInstanceID: HeaderFromInstanceID,
	KeyLevel:          HeaderCallLevel,
}

// MetaFromHeaders builds a meta from the propagation headers returned by get.
// Only headers that are present become meta keys.
func MetaFromHeaders(get func(string) string) Meta {
	meta := Meta{}

	for key, header := range Headers {
		if v := get(header); v != "" {
			meta[key] = v
		}
	}

	return meta
}

// SetHeaders calls set once per meta key that has a header and a non-empty
// value.
func SetHeaders(meta Meta, set func(header, value string)) {
	for key, header := range Headers {
		if v := meta.String(key); v != "" {
			set(header, v)
		}
	}
}
