package match

// JerseyEntry is one raw match-sheet name and its shirt number.
type JerseyEntry struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

// JerseyMap maps raw match-sheet names ("SURNAME, FIRSTNAME") to shirt numbers.
// Iteration order is first-insertion order; setting an existing name replaces its
// number but keeps its position.
type JerseyMap struct {
	names   []string
	numbers map[string]string
}

// NewJerseyMap creates an empty map.
func NewJerseyMap() *JerseyMap {
	return &JerseyMap{numbers: make(map[string]string)}
}

// Set records number for name, overwriting any earlier number.
func (m *JerseyMap) Set(name, number string) {
	if _, ok := m.numbers[name]; !ok {
		m.names = append(m.names, name)
	}
	m.numbers[name] = number
}

// Get returns the number recorded for name.
func (m *JerseyMap) Get(name string) (string, bool) {
	n, ok := m.numbers[name]
	return n, ok
}

// Merge copies every entry of other into m; other wins on conflicts.
func (m *JerseyMap) Merge(other *JerseyMap) {
	if other == nil {
		return
	}
	for _, e := range other.Entries() {
		m.Set(e.Name, e.Number)
	}
}

// Len returns the number of distinct names.
func (m *JerseyMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// Entries returns the entries in iteration order.
func (m *JerseyMap) Entries() []JerseyEntry {
	if m == nil {
		return nil
	}
	out := make([]JerseyEntry, 0, len(m.names))
	for _, name := range m.names {
		out = append(out, JerseyEntry{Name: name, Number: m.numbers[name]})
	}
	return out
}
