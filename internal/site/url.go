package site

import "strings"

// BuildURL joins the site root URL and a server-relative article path with
// exactly one slash. Backslashes in the path are normalized first so
// Windows-built paths produce the same URL as POSIX ones. Slashes that are
// not part of the join point pass through untouched, so the result is
// stable no matter how either side spells its boundary.
func BuildURL(rootURL, articlePath string) string {
	path := strings.ReplaceAll(articlePath, `\`, "/")
	root := strings.TrimSuffix(rootURL, "/")
	path = strings.TrimPrefix(path, "/")
	return root + "/" + path
}
