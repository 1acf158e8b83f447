package protocol

// Field is one key/value pair of a record.
type Field struct {
	Key   string
	Value Value
}

// List is a named, ordered list of child records.
type List struct {
	Name    string
	Section Section
	// Marker is set for unknown sections so they can be re-emitted verbatim.
	Marker string
	Items  []*Record
}

// Record is the generic node of a parsed stream: ordered fields plus ordered child lists.
type Record struct {
	Section Section
	Marker  string
	Fields  []Field
	Lists   []*List
}

// NewRecord returns an empty record with the section's known child lists in place.
func NewRecord(section Section) *Record {
	r := &Record{Section: section}
	for _, name := range childLists[section] {
		r.Lists = append(r.Lists, &List{Name: name, Section: listSection(name)})
	}
	return r
}

func newUnknownRecord(marker string) *Record {
	return &Record{Section: SectionUnknown, Marker: marker}
}

func listSection(name string) Section {
	switch name {
	case ListCompositions:
		return SectionComp
	case ListLayers:
		return SectionLayer
	case ListEffects:
		return SectionEffect
	case ListFootage:
		return SectionFootageItem
	case ListFolders:
		return SectionFolder
	}
	return SectionUnknown
}

// Set stores v under key. A repeated key keeps its first position and takes the last value.
func (r *Record) Set(key string, v Value) {
	for i := range r.Fields {
		if r.Fields[i].Key == key {
			r.Fields[i].Value = v
			return
		}
	}
	r.Fields = append(r.Fields, Field{Key: key, Value: v})
}

func (r *Record) Get(key string) (Value, bool) {
	if r == nil {
		return Value{}, false
	}
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// List returns the named child list or nil.
func (r *Record) List(name string) *List {
	if r == nil {
		return nil
	}
	for _, l := range r.Lists {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// Children returns the items of the named child list.
func (r *Record) Children(name string) []*Record {
	if l := r.List(name); l != nil {
		return l.Items
	}
	return nil
}

// appendChild adds child to the list name, creating the list on first use.
func (r *Record) appendChild(name string, child *Record) {
	l := r.List(name)
	if l == nil {
		l = &List{Name: name, Section: child.Section}
		if child.Section == SectionUnknown {
			l.Marker = child.Marker
		}
		r.Lists = append(r.Lists, l)
	}
	l.Items = append(l.Items, child)
}

// merge folds src's fields and child lists into r, in order.
func (r *Record) merge(src *Record) {
	for _, f := range src.Fields {
		r.Set(f.Key, f.Value)
	}
	for _, l := range src.Lists {
		for _, item := range l.Items {
			r.appendChild(l.Name, item)
		}
	}
}

// Map returns a plain nested view: scalars as bool/int64/float64/string and
// child lists as []map[string]any.
func (r *Record) Map() map[string]any {
	if r == nil {
		return nil
	}
	out := make(map[string]any, len(r.Fields)+len(r.Lists))
	for _, f := range r.Fields {
		out[f.Key] = f.Value.Any()
	}
	for _, l := range r.Lists {
		items := make([]map[string]any, 0, len(l.Items))
		for _, item := range l.Items {
			items = append(items, item.Map())
		}
		out[l.Name] = items
	}
	return out
}
