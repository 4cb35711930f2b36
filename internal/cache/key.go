package cache

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// Key composes a cache key as namespace:vN:discriminators. A version bump
// changes the vN segment, so older entries are never read again and expire
// on their own TTL.
func Key(namespace string, version int64, parts ...string) string {
	var b strings.Builder
	b.WriteString(namespace)
	b.WriteString(":v")
	b.WriteString(strconv.FormatInt(version, 10))
	for _, p := range parts {
		b.WriteString(":")
		b.WriteString(p)
	}
	return b.String()
}

// HashPart folds free-form input (search queries, filter combinations) into
// a short fixed discriminator so user text never lands verbatim in a key.
func HashPart(s string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return strconv.FormatUint(h.Sum64(), 16)
}
