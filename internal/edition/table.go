package edition

// Table is an immutable lookup from feature tags and spec identifiers to
// editions. A missing entry is not an error; callers decide what an
// unresolved identifier means.
type Table struct {
	features map[string]Edition
	specIDs  map[string]Edition
}

// NewTable copies the given mappings into a new table.
func NewTable(features, specIDs map[string]Edition) *Table {
	t := &Table{
		features: make(map[string]Edition, len(features)),
		specIDs:  make(map[string]Edition, len(specIDs)),
	}
	for k, v := range features {
		t.features[k] = v
	}
	for k, v := range specIDs {
		t.specIDs[k] = v
	}
	return t
}

// Default returns the table covering the corpus feature tags.
func Default() *Table {
	return NewTable(featureEditions, specIDEditions)
}

// Feature resolves a feature tag.
func (t *Table) Feature(name string) (Edition, bool) {
	e, ok := t.features[name]
	return e, ok
}

// SpecID resolves a spec identifier.
func (t *Table) SpecID(id string) (Edition, bool) {
	e, ok := t.specIDs[id]
	return e, ok
}

// Classifier answers edition questions relative to one target edition.
type Classifier struct {
	Table  *Table
	Target Edition
}

// NewClassifier returns a classifier for target backed by table.
func NewClassifier(table *Table, target Edition) Classifier {
	return Classifier{Table: table, Target: target}
}

// ForeignFeature returns the first feature that resolves to an edition
// other than the target. Unresolved features are skipped.
func (c Classifier) ForeignFeature(features []string) (string, Edition, bool) {
	for _, f := range features {
		e, ok := c.Table.Feature(f)
		if ok && e != c.Target {
			return f, e, true
		}
	}
	return "", 0, false
}

// SpecIDMatches reports whether id resolves to the target edition. An
// unresolved id never matches.
func (c Classifier) SpecIDMatches(id string) bool {
	e, ok := c.Table.SpecID(id)
	return ok && e == c.Target
}
