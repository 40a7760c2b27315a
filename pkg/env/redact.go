package env

import (
	"net/url"
	"strings"
)

var sensitiveMarkers = []string{
	"KEY", "TOKEN", "SECRET", "PASSWORD", "PASSWD", "CREDENTIAL",
}

// IsSensitiveKey reports whether a variable name suggests a
// credential.
func IsSensitiveKey(key string) bool {
	upper := strings.ToUpper(key)
	for _, m := range sensitiveMarkers {
		if strings.Contains(upper, m) {
			return true
		}
	}
	return false
}

// RedactValue masks a value, showing only the first 4 and last 4
// characters.
func RedactValue(v string) string {
	if len(v) <= 8 {
		return strings.Repeat("*", len(v))
	}
	return v[:4] + strings.Repeat("*", len(v)-8) + v[len(v)-4:]
}

// RedactURL masks credentials in a URL string, such as a
// websocket runtime endpoint.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if u.User != nil {
		password, hasPassword := u.User.Password()
		if hasPassword {
			u.User = url.UserPassword(u.User.Username(), RedactValue(password))
		}
	}
	return u.String()
}

// RedactMap returns a copy of vars with sensitive values masked.
func RedactMap(vars map[string]string) map[string]string {
	result := make(map[string]string, len(vars))
	for k, v := range vars {
		if IsSensitiveKey(k) {
			result[k] = RedactValue(v)
		} else {
			result[k] = v
		}
	}
	return result
}
