package storage

import (
	"fmt"
	"strings"
)

// splitPath turns "users/u1" into parent "users" and key "u1".
func splitPath(p string) (parent, key string, err error) {
	p = cleanPath(p)
	i := strings.LastIndex(p, "/")
	if i <= 0 || i == len(p)-1 {
		return "", "", fmt.Errorf("storage: path %q must have a parent and a key", p)
	}
	return p[:i], p[i+1:], nil
}

func cleanPath(p string) string {
	return strings.Trim(p, "/")
}
