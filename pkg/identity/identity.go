// Package identity resolves the acting principal from a bearer credential for
// write attribution. It does not verify signatures; that is the job of the JWT
// middleware in front of every attributed route.
package identity

import (
	"bytes"
	"crypto/md5"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

const bearerPrefix = "Bearer "

// claimPriority lists the claims consulted for the actor id. The first non-null
// claim wins even when its value is blank.
var claimPriority = []string{"sub", "user_id", "uid"}

// FromAuthorizationHeader extracts the actor id from an Authorization header value.
// It reports false when no identity can be resolved.
func FromAuthorizationHeader(header string) (uuid.UUID, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return uuid.Nil, false
	}
	return FromToken(strings.TrimPrefix(header, bearerPrefix))
}

// FromToken extracts the actor id from a compact JWT. Malformed tokens yield false.
func FromToken(token string) (uuid.UUID, bool) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return uuid.Nil, false
	}

	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return uuid.Nil, false
	}

	claims := map[string]interface{}{}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&claims); err != nil {
		return uuid.Nil, false
	}

	candidate := ""
	for _, name := range claimPriority {
		value, ok := claims[name]
		if !ok || value == nil {
			continue
		}
		candidate = asText(value)
		break
	}
	if strings.TrimSpace(candidate) == "" {
		return uuid.Nil, false
	}

	if id, err := uuid.Parse(candidate); err == nil {
		return id, true
	}
	return DeriveID([]byte(candidate)), true
}

// DeriveID maps a non-UUID claim value onto a stable name-based (version 3) UUID.
// No namespace is mixed in, so ids match those produced by earlier deployments
// for the same raw claim bytes. This is a compatibility shim for upstream tokens
// that carry non-UUID subjects; it is not a security mechanism.
func DeriveID(raw []byte) uuid.UUID {
	sum := md5.Sum(raw)
	sum[6] = (sum[6] & 0x0f) | 0x30
	sum[8] = (sum[8] & 0x3f) | 0x80
	return uuid.UUID(sum)
}

func asText(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}
