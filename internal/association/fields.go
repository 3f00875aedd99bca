package association

// Field holds the metadata this package needs about a dataset field.
type Field struct {
	Name   string `json:"name"`
	OpType string `json:"optype"`
}

// Fields indexes field metadata by ID and by name.
type Fields struct {
	byID   map[string]Field
	byName map[string]string
}

func newFields(raw map[string]Field) *Fields {
	f := &Fields{
		byID:   make(map[string]Field, len(raw)),
		byName: make(map[string]string, len(raw)),
	}
	for id, field := range raw {
		f.byID[id] = field
		f.byName[field.Name] = id
	}
	return f
}

// Resolve maps a field name or field ID to the canonical field ID.
func (f *Fields) Resolve(nameOrID string) (string, error) {
	if _, ok := f.byID[nameOrID]; ok {
		return nameOrID, nil
	}
	if id, ok := f.byName[nameOrID]; ok {
		return id, nil
	}
	return "", &UnknownFieldError{Field: nameOrID}
}

// Get returns the field metadata for an ID.
func (f *Fields) Get(id string) (Field, bool) {
	field, ok := f.byID[id]
	return field, ok
}

// Len returns the number of known fields.
func (f *Fields) Len() int { return len(f.byID) }
