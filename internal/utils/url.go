package utils

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

var (
	urlRegex    = regexp.MustCompile(`https?://[^\s]+`)
	inviteRegex = regexp.MustCompile(`(?i)discord\.(gg|com/invite)/\w+`)
)

func ExtractURLs(content string) []string {
	return urlRegex.FindAllString(content, -1)
}

func ContainsInvite(content string) bool {
	return inviteRegex.MatchString(content)
}

// NormalizeURL lowercases the host and converts it to its punycode form so
// lookalike unicode hosts compare equal to their ASCII spelling. Returns the
// normalized URL and its host.
func NormalizeURL(raw string) (string, string, error) {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}

	host := strings.ToLower(parsed.Hostname())
	if asciiHost, err := idna.ToASCII(host); err == nil {
		host = asciiHost
	}

	parsed.Host = host
	parsed.Fragment = ""
	parsed.User = nil

	return parsed.String(), host, nil
}
