package bibtex

import "strings"

// Field is one name/value pair of an entry. Names are stored lowercase;
// values keep inner braces verbatim.
type Field struct {
	Name  string
	Value string
}

// Entry is one bibliographic record.
type Entry struct {
	Type   string
	Key    string
	Fields []Field
}

// Get returns the value of the named field and whether it is present.
func (e *Entry) Get(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, f := range e.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Has reports whether the named field is present.
func (e *Entry) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// Set replaces the value of the named field in place, appending the field
// when the entry does not have it yet.
func (e *Entry) Set(name, value string) {
	name = strings.ToLower(name)
	for i := range e.Fields {
		if e.Fields[i].Name == name {
			e.Fields[i].Value = value
			return
		}
	}
	e.Fields = append(e.Fields, Field{Name: name, Value: value})
}

// Delete removes every occurrence of the named field, keeping the order of
// the remaining fields. It reports whether anything was removed.
func (e *Entry) Delete(name string) bool {
	name = strings.ToLower(name)
	kept := e.Fields[:0]
	removed := false
	for _, f := range e.Fields {
		if f.Name == name {
			removed = true
			continue
		}
		kept = append(kept, f)
	}
	e.Fields = kept
	return removed
}
