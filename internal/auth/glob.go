package auth

import "path"

// matchGlob matches url against pattern using path.Match's
// literal-separator semantics: "*" never matches across "/".
func matchGlob(pattern, url string) (bool, error) {
	return path.Match(pattern, url)
}
