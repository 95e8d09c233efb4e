package domain

import "strings"

// PrivatePrefix marks metadata keys reserved for internal bookkeeping.
// Entries under this namespace are never exposed to ordinary queries.
const PrivatePrefix = "private:"

// Metadata keys written by the registration workflow.
const (
	MetaVerifyKey       = "private:verify:register:key"
	MetaVerifyTimestamp = "private:verify:register:timestamp"
	MetaHostVirtual     = "private:host:vhost"
	MetaHostActual      = "private:host:actual"
)

// MetadataEntry is a single namespaced key/value pair.
type MetadataEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Metadata is an ordered mapping of namespaced keys to string values.
// Insertion order is preserved; setting an existing key updates it in place.
type Metadata []MetadataEntry

// Get returns the value for key and whether it exists.
func (m Metadata) Get(key string) (string, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Set stores value under key, preserving the position of an existing entry.
func (m *Metadata) Set(key, value string) {
	for i, e := range *m {
		if e.Key == key {
			(*m)[i].Value = value
			return
		}
	}
	*m = append(*m, MetadataEntry{Key: key, Value: value})
}

// Delete removes key if present.
func (m *Metadata) Delete(key string) {
	for i, e := range *m {
		if e.Key == key {
			*m = append((*m)[:i], (*m)[i+1:]...)
			return
		}
	}
}

// Public returns the entries outside the private namespace, in order.
func (m Metadata) Public() Metadata {
	var out Metadata
	for _, e := range m {
		if !strings.HasPrefix(e.Key, PrivatePrefix) {
			out = append(out, e)
		}
	}
	return out
}

// Clone returns a copy of the metadata.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	copy(out, m)
	return out
}
