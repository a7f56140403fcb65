package logbook

// LogType names a tracking system whose completion is recorded per entry.
type LogType struct {
	Name   string
	Prefix string
}

// Label is the display prefix, falling back to the name.
func (t LogType) Label() string {
	if t.Prefix != "" {
		return t.Prefix
	}
	return t.Name
}

// LogTypes is the ordered set of configured log types.
type LogTypes []LogType

// Has reports whether name is configured.
func (ts LogTypes) Has(name string) bool {
	_, ok := ts.Lookup(name)
	return ok
}

// Lookup returns the log type called name.
func (ts LogTypes) Lookup(name string) (LogType, bool) {
	for _, t := range ts {
		if t.Name == name {
			return t, true
		}
	}
	return LogType{}, false
}

// Names returns the type names in configured order.
func (ts LogTypes) Names() []string {
	names := make([]string, 0, len(ts))
	for _, t := range ts {
		names = append(names, t.Name)
	}
	return names
}
