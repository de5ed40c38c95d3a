package core

// ErrorKind classifies how an operation failed. Validation and Business are
// routine user feedback; the transport/protocol/decode kinds are operational
// failures surfaced to the user as a generic message with detail preserved.
type ErrorKind string

const (
	ErrTransportUnavailable ErrorKind = "TRANSPORT_UNAVAILABLE"
	ErrTransportTimeout     ErrorKind = "TRANSPORT_TIMEOUT"
	ErrProtocol             ErrorKind = "PROTOCOL_ERROR"
	ErrDecode               ErrorKind = "DECODE_ERROR"
	ErrValidation           ErrorKind = "VALIDATION_ERROR"
	ErrBusiness             ErrorKind = "BUSINESS_ERROR"
)

// Payload is a decoded JSON object from the backend. Accessors substitute
// defaults for absent or mistyped fields so call sites never have to.
type Payload map[string]any

// String returns the string at key, or def when absent or not a string.
func (p Payload) String(key, def string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return def
}

// Number returns the numeric value at key, or def. JSON numbers decode as
// float64; integer-typed values are accepted too.
func (p Payload) Number(key string, def float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return def
	}
}

// Bool returns the bool at key, or def when absent or not a bool.
func (p Payload) Bool(key string, def bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return def
}

// List returns the object list at key; non-object elements are skipped.
func (p Payload) List(key string) []Payload {
	raw, ok := p[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Payload, 0, len(raw))
	for _, el := range raw {
		if m, ok := el.(map[string]any); ok {
			out = append(out, Payload(m))
		}
	}
	return out
}

// Has reports whether key is present at all.
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Result is the normalized envelope every backend operation returns.
// OK is transport-level only: the HTTP call completed with a 2xx status.
// The backend's own business verdict lives inside Data and is checked
// separately via BusinessOK.
type Result struct {
	OK      bool      `json:"ok"`
	Data    Payload   `json:"data,omitempty"`
	Err     string    `json:"error,omitempty"`
	Kind    ErrorKind `json:"kind,omitempty"`
	Details Payload   `json:"details,omitempty"`
}

// Success wraps a decoded backend payload.
func Success(data Payload) Result {
	return Result{OK: true, Data: data}
}

// Failure builds a failed Result with a classification.
func Failure(kind ErrorKind, msg string) Result {
	return Result{Err: msg, Kind: kind}
}

// FailureWithDetails attaches the raw/decoded backend body for diagnostics.
func FailureWithDetails(kind ErrorKind, msg string, details Payload) Result {
	return Result{Err: msg, Kind: kind, Details: details}
}

// BusinessOK reports whether the backend accepted the operation. The payload
// "success" flag wins when present; a payload carrying "error" without a
// success flag counts as rejected (the backend omits the flag on list
// responses); otherwise a transport success is a business success.
func (r Result) BusinessOK() bool {
	if !r.OK {
		return false
	}
	if r.Data.Has("success") {
		return r.Data.Bool("success", false)
	}
	return !r.Data.Has("error")
}

// Message extracts the human-readable outcome: the backend's message/error
// field on business results, the transport error otherwise.
func (r Result) Message() string {
	if !r.OK {
		return r.Err
	}
	if msg := r.Data.String("message", ""); msg != "" {
		return msg
	}
	return r.Data.String("error", "")
}

// Operational reports whether the failure is a transport/protocol/decode
// problem rather than routine user-facing feedback.
func (r Result) Operational() bool {
	switch r.Kind {
	case ErrTransportUnavailable, ErrTransportTimeout, ErrProtocol, ErrDecode:
		return true
	default:
		return false
	}
}
