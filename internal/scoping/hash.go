package scoping

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// fingerprintWidth is the fixed width of the base-36 rule fingerprint.
const fingerprintWidth = 5

// Fingerprint returns a fixed-width lowercase base-36 digest of the exact
// rule text. The hash is deterministic and fast rather than collision-free;
// byte-identical inputs always produce identical output.
func Fingerprint(ruleText string) string {
	h := fnv.New32a()
	h.Write([]byte(ruleText))

	digest := strconv.FormatUint(uint64(h.Sum32()), 36)
	if len(digest) > fingerprintWidth {
		digest = digest[len(digest)-fingerprintWidth:]
	}
	if len(digest) < fingerprintWidth {
		digest = strings.Repeat("0", fingerprintWidth-len(digest)) + digest
	}
	return digest
}
