package auth

import "sync"

// publicPaths lists URL paths that bypass token parsing entirely. Health
// endpoints are public by construction; application routes opt in through
// Public at registration time, so what skips auth is always visible at the
// route table rather than inferred from the URL shape.
var (
	publicMu    sync.RWMutex
	publicPaths = map[string]bool{
		"/health":    true,
		"/health/db": true,
	}
)

// Public marks a full route path as exempt from authentication and returns
// the path unchanged so it can be used inline when registering the route.
func Public(path string) string {
	publicMu.Lock()
	publicPaths[path] = true
	publicMu.Unlock()
	return path
}

// IsPublicPath reports whether the given path was registered as public.
func IsPublicPath(path string) bool {
	publicMu.RLock()
	defer publicMu.RUnlock()
	return publicPaths[path]
}
