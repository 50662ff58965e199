// Package credentials reads and writes the local cord credential file.
//
// The file holds one key=value pair per line. Only a closed set of keys is
// recognized; anything else is ignored when reading and rejected when writing.
package credentials

import (
	"fmt"
	"strings"
	"time"

	"github.com/cord-sdk/cord-cli/internal/clock"
)

// Key is one of the recognized credential file keys
type Key string

// Recognized credential file keys
const (
	KeyVersionLastChecked Key = "VERSION_LAST_CHECKED"
	KeyProjectID          Key = "PROJECT_ID"
	KeyProjectSecret      Key = "PROJECT_SECRET"
	KeyCustomerID         Key = "CUSTOMER_ID"
	KeyCustomerSecret     Key = "CUSTOMER_SECRET"
	KeyAPIURL             Key = "API_URL"
)

// Keys lists every recognized key in the order they are written to disk
var Keys = []Key{
	KeyVersionLastChecked,
	KeyProjectID,
	KeyProjectSecret,
	KeyCustomerID,
	KeyCustomerSecret,
	KeyAPIURL,
}

// IsKey reports whether s names a recognized key
func IsKey(s string) bool {
	for _, k := range Keys {
		if string(k) == s {
			return true
		}
	}
	return false
}

// Record is the parsed content of a credential file.
// A key is present only if it had a non-blank value.
type Record map[Key]string

// Get returns the value for key and whether it is present
func (r Record) Get(key Key) (string, bool) {
	v, ok := r[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// ApplicationCredentials are the per-application identity/secret pair
type ApplicationCredentials struct {
	ProjectID     string
	ProjectSecret string
}

// ManagementCredentials are the per-account identity/secret pair
type ManagementCredentials struct {
	CustomerID     string
	CustomerSecret string
}

// ApplicationCredentials returns the project pair.
// It never consults the customer keys.
func (r Record) ApplicationCredentials() (ApplicationCredentials, error) {
	if missing := r.missing(KeyProjectID, KeyProjectSecret); len(missing) > 0 {
		return ApplicationCredentials{}, &ConfigurationMissingError{Surface: SurfaceApplication, Missing: missing}
	}
	return ApplicationCredentials{
		ProjectID:     r[KeyProjectID],
		ProjectSecret: r[KeyProjectSecret],
	}, nil
}

// ManagementCredentials returns the customer pair.
// It never consults the project keys.
func (r Record) ManagementCredentials() (ManagementCredentials, error) {
	if missing := r.missing(KeyCustomerID, KeyCustomerSecret); len(missing) > 0 {
		return ManagementCredentials{}, &ConfigurationMissingError{Surface: SurfaceManagement, Missing: missing}
	}
	return ManagementCredentials{
		CustomerID:     r[KeyCustomerID],
		CustomerSecret: r[KeyCustomerSecret],
	}, nil
}

// APIURL returns the API base URL override, or fallback when none is set.
// A trailing slash is removed.
func (r Record) APIURL(fallback string) string {
	if v, ok := r.Get(KeyAPIURL); ok {
		return strings.TrimRight(v, "/")
	}
	return strings.TrimRight(fallback, "/")
}

// LastVersionCheck returns when the version feed was last consulted.
// ok is false when the key is absent or unparseable.
func (r Record) LastVersionCheck() (t time.Time, ok bool) {
	v, present := r.Get(KeyVersionLastChecked)
	if !present {
		return time.Time{}, false
	}
	t, err := clock.ParseMillis(v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Redacted returns a copy of the record with secrets masked,
// keeping the first four characters as the CLI has always shown them.
func (r Record) Redacted() map[string]string {
	out := make(map[string]string, len(r))
	for k, v := range r {
		switch k {
		case KeyProjectSecret, KeyCustomerSecret:
			out[string(k)] = maskSecret(v)
		default:
			out[string(k)] = v
		}
	}
	return out
}

func (r Record) missing(keys ...Key) []Key {
	var missing []Key
	for _, k := range keys {
		if _, ok := r.Get(k); !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

func maskSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-4)
}

// SecretPrefix returns up to the first four characters of a secret for debug output
func SecretPrefix(s string) string {
	if len(s) <= 4 {
		return s
	}
	return s[:4]
}

func (k Key) String() string {
	return string(k)
}

// validateValues rejects values that would break the one-pair-per-line format
func validateValues(partial map[Key]string) error {
	for k, v := range partial {
		if strings.ContainsAny(v, "\r\n") {
			return fmt.Errorf("value for %s must be a single line", k)
		}
	}
	return nil
}

func validateKeys(partial map[Key]string) error {
	for k := range partial {
		if !IsKey(string(k)) {
			return fmt.Errorf("unrecognized credential key %q", string(k))
		}
	}
	return nil
}
