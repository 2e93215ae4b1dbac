package domain

// Entry is a single textual tag stored in a tEXt chunk.
type Entry struct {
	Key   string
	Value string
}

// Entries is an ordered list of tags. Keys may repeat; order follows the file.
type Entries []Entry

// Get returns the value of the first entry with the given key.
func (e Entries) Get(key string) (string, bool) {
	for _, entry := range e {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return "", false
}

// Values returns every value stored under key, in order.
func (e Entries) Values(key string) []string {
	var values []string
	for _, entry := range e {
		if entry.Key == key {
			values = append(values, entry.Value)
		}
	}
	return values
}

// Keys returns the distinct keys in order of first appearance.
func (e Entries) Keys() []string {
	seen := make(map[string]bool, len(e))
	var keys []string
	for _, entry := range e {
		if seen[entry.Key] {
			continue
		}
		seen[entry.Key] = true
		keys = append(keys, entry.Key)
	}
	return keys
}

// Clone returns a copy that can be modified without affecting e.
func (e Entries) Clone() Entries {
	if e == nil {
		return nil
	}
	out := make(Entries, len(e))
	copy(out, e)
	return out
}
