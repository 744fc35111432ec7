package store

const (
	keyResolverAPIKey = "resolver_api_key"
)

// Settings exposes the user preferences the acquisition pipeline cares about
// as typed accessors over a KV store.
type Settings struct {
	kv KV
}

func NewSettings(kv KV) *Settings {
	return &Settings{kv: kv}
}

// ResolverAPIKey returns the stored external-resolver credential, or "" when
// none is configured. The resolver strategy treats "" as "skip me".
func (s *Settings) ResolverAPIKey() (string, error) {
	value, found, err := s.kv.Get(keyResolverAPIKey)
	if err != nil || !found {
		return "", err
	}
	return string(value), nil
}

func (s *Settings) SetResolverAPIKey(key string) error {
	if key == "" {
		return s.kv.Delete(keyResolverAPIKey)
	}
	return s.kv.Put(keyResolverAPIKey, []byte(key))
}
