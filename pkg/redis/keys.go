package redis

import "strings"

const defaultKeyspace = "menuflow"

// Keyspace namespaces every key this service writes, e.g.
// "menuflow:idempotency:<scope>:<key>". The zero value uses "menuflow".
type Keyspace string

func (k Keyspace) IdempotencyKey(scope, id string) string {
	return k.join("idempotency", scope, id)
}

func (k Keyspace) RateLimitKey(scope string) string {
	return k.join("rate_limit", scope)
}

func (k Keyspace) AccessSessionKey(accessID string) string {
	return k.join("session", "access", accessID)
}

func (k Keyspace) join(parts ...string) string {
	ns := strings.Trim(strings.TrimSpace(string(k)), ":")
	if ns == "" {
		ns = defaultKeyspace
	}
	var b strings.Builder
	b.WriteString(ns)
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		b.WriteByte(':')
		b.WriteString(part)
	}
	return b.String()
}
