package filter

import (
	"encoding/json"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Hash returns a stable content hash of a validated expression, suitable as
// a cache key component. The hash is computed over a canonical re-marshal of
// the typed expression, so field order in the source JSON never affects it.
func Hash(expr *Expression) string {
	data, err := json.Marshal(expr)
	if err != nil {
		// Expression contains only strings, numbers and slices; marshal
		// cannot fail on a validated value.
		panic("filter: marshal of validated expression failed: " + err.Error())
	}
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}
