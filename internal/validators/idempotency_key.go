package validators

const MaxIdempotencyKeyLen = 128

// IsIdempotencyKeyValid accepts 1..128 printable ASCII characters without
// spaces, which keeps keys safe to embed in Redis key names.
func IsIdempotencyKeyValid(key string) bool {
	if key == "" || len(key) > MaxIdempotencyKeyLen {
		return false
	}
	for i := 0; i < len(key); i++ {
		ch := key[i]
		if ch <= ' ' || ch > '~' {
			return false
		}
	}
	return true
}
