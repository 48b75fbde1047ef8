package content

import (
	"net/url"
	"regexp"
	"strings"
)

var schemePrefixRe = regexp.MustCompile(`^https?://(www\.)?`)

// HumanReadableLinkAddress returns a shorter form of rawURL for display:
// percent-decoded, without the http(s) scheme, the "www." prefix and a
// trailing slash. If nothing would be left, rawURL is returned.
func HumanReadableLinkAddress(rawURL string) string {
	decoded := rawURL
	if s, err := url.PathUnescape(rawURL); err == nil {
		decoded = s
	} else {
		logger.Debug().Err(err).Str("url", rawURL).Msg("could not decode link address")
	}
	short := schemePrefixRe.ReplaceAllString(decoded, "")
	short = strings.TrimSuffix(short, "/")
	if short != "" {
		return short
	}
	return decoded
}

// DomainName returns the host of an absolute URL without a "www." prefix,
// or "" when rawURL has no host.
func DomainName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
