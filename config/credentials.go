package config

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Environment keys for the Genius API credentials
const (
	ClientIDKey     = "GENIUS_CLIENT_ID"
	ClientSecretKey = "GENIUS_CLIENT_SECRET"
	AccessTokenKey  = "GENIUS_ACCESS_TOKEN"
)

// Secret is a credential value that may be absent.
// Present is false when the key was not defined at all, which is
// distinct from a key defined with an empty value.
type Secret struct {
	Value   string
	Present bool
}

// String masks the value so secrets never end up in logs.
func (s Secret) String() string {
	if !s.Present {
		return "<unset>"
	}
	if s.Value == "" {
		return "<empty>"
	}
	return "<redacted>"
}

// Credentials holds the Genius API secrets. It is built once at startup
// and passed to the components that need it.
type Credentials struct {
	ClientID     Secret
	ClientSecret Secret
	AccessToken  Secret
}

// LookupFunc resolves an environment key, reporting whether it was set.
type LookupFunc func(key string) (string, bool)

// LoadCredentials reads the credentials from a .env file (if any) and the
// process environment. Missing keys produce a warning and an empty Secret.
func LoadCredentials(filenames ...string) Credentials {
	if err := godotenv.Load(filenames...); err != nil && !os.IsNotExist(err) {
		log.Warnf("Error loading env file: %v", err)
	}
	return CredentialsFrom(os.LookupEnv)
}

// CredentialsFrom builds Credentials from an arbitrary lookup source.
func CredentialsFrom(lookup LookupFunc) Credentials {
	return Credentials{
		ClientID:     readSecret(lookup, ClientIDKey),
		ClientSecret: readSecret(lookup, ClientSecretKey),
		AccessToken:  readSecret(lookup, AccessTokenKey),
	}
}

func readSecret(lookup LookupFunc, key string) Secret {
	value, ok := lookup(key)
	if !ok {
		log.Warnf("could not read %s from environment", key)
		return Secret{}
	}
	return Secret{Value: value, Present: true}
}
