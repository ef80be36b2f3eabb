package scopes

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// randomToken returns a short hex string with enough entropy that concurrent
// test runs sharing a filesystem will not collide on generated names.
func randomToken(length int) string {
	buf := make([]byte, (length+1)/2)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand.Read does not fail on supported platforms.
		panic(err)
	}
	return hex.EncodeToString(buf)[:length]
}

// shellQuote wraps s in single quotes for safe interpolation into a POSIX
// shell script.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
