package auth

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
)

// gravatarURL derives the avatar URL for a normalized email: 200px,
// PG-rated, "mystery man" fallback for addresses without a gravatar.
func gravatarURL(email string) string {
	sum := md5.Sum([]byte(email))
	u := url.URL{
		Scheme:   "https",
		Host:     "www.gravatar.com",
		Path:     "/avatar/" + hex.EncodeToString(sum[:]),
		RawQuery: url.Values{"s": {"200"}, "r": {"pg"}, "d": {"mm"}}.Encode(),
	}
	return u.String()
}
