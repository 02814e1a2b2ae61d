package redis

import (
	"fmt"

	"github.com/mcoot/psconsole/internal/model"
)

// Key prefix for all console data
const keyPrefix = "psconsole"

const systemOrigin = string(model.SystemOrigin)

// itemKey returns the Redis key for a single origin item
func itemKey(origin model.Origin, key string) string {
	return fmt.Sprintf("%s:origin:%s:item:%s", keyPrefix, origin, key)
}

// originKeysIndexKey returns the Redis key for the SET of item keys in an origin
func originKeysIndexKey(origin model.Origin) string {
	return fmt.Sprintf("%s:idx:origin_keys:%s", keyPrefix, origin)
}
