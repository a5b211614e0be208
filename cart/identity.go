package cart

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// LineID is the normalized identity of a cart line: the menu item plus the
// unordered set of selected customization ids.
type LineID string

// NewLineID builds the identity for a menu item and a set of customization ids.
// Order and duplicates in customizationIDs do not affect the result.
func NewLineID(menuItemID string, customizationIDs []string) LineID {
	ids := make([]string, 0, len(customizationIDs))
	seen := make(map[string]struct{}, len(customizationIDs))
	for _, id := range customizationIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// every token is length-prefixed so "a|b" and "a", "|b" never encode the same
	var b strings.Builder
	writeToken(&b, menuItemID)
	for _, id := range ids {
		writeToken(&b, id)
	}
	return LineID(strconv.FormatUint(xxhash.Sum64String(b.String()), 16))
}

func writeToken(b *strings.Builder, s string) {
	b.WriteString(strconv.Itoa(len(s)))
	b.WriteByte(':')
	b.WriteString(s)
}

func lineIDFor(menuItemID string, cs []Customization) LineID {
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
	}
	return NewLineID(menuItemID, ids)
}
