package resolve

import "regexp"

// urlPattern is a coarse syntactic filter for http(s) URLs. The host must be a
// domain name, 'localhost', or a dotted quad. IPv4 octets are not range checked.
var urlPattern = regexp.MustCompile(`(?i)^https?://` +
	`(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+[A-Z]{2,6}\.?|` +
	`localhost|` +
	`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
	`(?::\d+)?` +
	`(?:/?|[/?]\S+)$`)

// ValidateURL returns true if the string provided looks like an http(s) URL. This
// is not a canonicalization step; some malformed URLs (e.g. http://999.1.1.1) pass.
func ValidateURL(url string) bool {
	return urlPattern.MatchString(url)
}
