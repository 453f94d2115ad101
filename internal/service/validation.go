package service

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-']+@[a-z0-9.\-\p{L}]+\.[a-z\p{L}]{2,}$`)
	slugInvalid  = regexp.MustCompile(`[^a-z0-9]+`)
	idnaProfile  = idna.Lookup
)

const (
	trackingPrefix     = "utm_"
	defaultPhoneRegion = "BR"
)

// normalizeEmail lowercases the address and converts an internationalised
// domain to its ASCII form. ok is false when the address is not plausible.
func normalizeEmail(raw string) (string, bool) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" || !emailPattern.MatchString(email) {
		return "", false
	}
	local, domain, _ := strings.Cut(email, "@")
	if !isDomainValid(domain) {
		return "", false
	}
	asciiDomain, err := idnaProfile.ToASCII(domain)
	if err != nil || asciiDomain == "" {
		return "", false
	}
	return local + "@" + asciiDomain, true
}

// normalizePhone returns the number in E.164 form, or "" when it is not a
// valid number for region.
func normalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if region == "" {
		region = defaultPhoneRegion
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

// normalizeWebsite returns an https URL with an ASCII host and no tracking
// parameters, or "" when raw is not a usable URL.
func normalizeWebsite(raw string) string {
	u, err := sanitizeURL(raw)
	if err != nil {
		return ""
	}
	host, err := idnaProfile.ToASCII(strings.ToLower(strings.Trim(u.Hostname(), ".")))
	if err != nil || !isDomainValid(host) {
		return ""
	}
	if port := u.Port(); port != "" {
		host = host + ":" + port
	}
	u.Host = host
	stripTracking(u)
	return u.String()
}

// Slugify converts a title into a lowercase ASCII slug ("Refrigeração Sul" => "refrigeracao-sul").
func Slugify(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, err := transform.String(t, value)
	if err != nil {
		ascii = value
	}
	slug := slugInvalid.ReplaceAllString(strings.ToLower(ascii), "-")
	return strings.Trim(slug, "-")
}

func sanitizeURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, errors.New("invalid url")
	}
	u.Scheme = "https"
	return u, nil
}

func stripTracking(u *url.URL) {
	if u == nil {
		return
	}
	query := u.Query()
	changed := false
	for key := range query {
		if strings.HasPrefix(strings.ToLower(key), trackingPrefix) {
			query.Del(key)
			changed = true
		}
	}
	if changed {
		u.RawQuery = query.Encode()
	}
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	parts := strings.Split(domain, ".")
	for _, part := range parts {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}
