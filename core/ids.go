package core

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"jirabackend/utils"
)

const (
	ChannelSubscriptionIDPrefix = "cs"
	UserSubscriptionIDPrefix    = "us"
)

// NewID returns prefix_ULID, e.g. core.NewID("cs") -> "cs_01G0EZ1XTM37C5X11SQTDNCTM1"
func NewID(prefix string) string {
	utils.AssertInvariant(strings.TrimSpace(prefix) != "", "prefix cannot be empty")

	entropy := ulid.Monotonic(rand.Reader, 0)
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	return strings.ToLower(strings.TrimSpace(prefix)) + "_" + id.String()
}

// HasIDPrefix checks that id looks like prefix_ULID
func HasIDPrefix(id, prefix string) bool {
	rest, ok := strings.CutPrefix(id, prefix+"_")
	if !ok {
		return false
	}
	_, err := ulid.ParseStrict(rest)
	return err == nil
}
