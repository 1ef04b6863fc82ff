package core

import "strings"

// hasScheme reports whether uri begins with "http://" or "https://",
// case-insensitively, per spec.md §4.1's URL join rules.
func hasScheme(uri string) bool {
	lower := strings.ToLower(uri)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// JoinURL resolves relativeURI against baseURL following spec.md §4.1:
//
//   - if relativeURI is itself absolute (starts with http:// or
//     https://, case-insensitive), baseURL is ignored;
//   - if baseURL is empty, relativeURI is returned unchanged (it must
//     then be absolute, or the backend reports InvalidUrl downstream);
//   - "//host/path" inherits the base's scheme;
//   - "/path" replaces the base's path entirely;
//   - anything else is appended after stripping the base's last path
//     segment.
func JoinURL(baseURL, relativeURI string) string {
	if hasScheme(relativeURI) {
		return relativeURI
	}
	if baseURL == "" {
		return relativeURI
	}
	baseURL = stripQuery(baseURL)

	if strings.HasPrefix(relativeURI, "//") {
		scheme := "http"
		if idx := strings.Index(baseURL, "://"); idx >= 0 {
			scheme = baseURL[:idx]
		}
		return scheme + ":" + relativeURI
	}

	if strings.HasPrefix(relativeURI, "/") {
		schemeEnd := strings.Index(baseURL, "://")
		if schemeEnd < 0 {
			return strings.TrimRight(baseURL, "/") + relativeURI
		}
		authorityStart := schemeEnd + 3
		pathStart := strings.IndexByte(baseURL[authorityStart:], '/')
		if pathStart < 0 {
			return baseURL + relativeURI
		}
		return baseURL[:authorityStart+pathStart] + relativeURI
	}

	// Strip the base's last path segment (everything after the final
	// '/' following the authority) and append relativeURI.
	schemeEnd := strings.Index(baseURL, "://")
	authorityStart := 0
	if schemeEnd >= 0 {
		authorityStart = schemeEnd + 3
	}
	lastSlash := strings.LastIndexByte(baseURL[authorityStart:], '/')
	var trimmed string
	if lastSlash < 0 {
		trimmed = baseURL + "/"
	} else {
		trimmed = baseURL[:authorityStart+lastSlash+1]
	}
	return trimmed + relativeURI
}

// stripQuery drops a base URL's query string (and anything after it)
// before a join computes a replacement path, matching concat_url in
// original_source/backends/curl/src/url.rs: "http://a.com?q=1" joined
// with "/c" or "c" yields "http://a.com/c", not a URL with the query
// string spliced into the middle of the path.
func stripQuery(url string) string {
	if idx := strings.IndexByte(url, '?'); idx >= 0 {
		return url[:idx]
	}
	return url
}
