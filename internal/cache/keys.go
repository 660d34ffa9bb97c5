package cache

import "strings"

const (
	GlobalKeyPrefix = "quizseed"
)

// GenerateKey joins parts under the global prefix with ":".
func GenerateKey(parts ...string) string {
	return strings.Join(append([]string{GlobalKeyPrefix}, parts...), ":")
}

// RunLockKey names the lock guarding seeding runs against one database target.
func RunLockKey(target string) string {
	return GenerateKey("seed", "lock", target)
}
