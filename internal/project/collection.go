package project

// Collection is an ordered list of projects. Order is scan order until a
// sort is applied.
type Collection []Project

// TypeStat is the per-ecosystem slice of a collection.
type TypeStat struct {
	Kind  Kind  `json:"kind" yaml:"kind"`
	Count int   `json:"count" yaml:"count"`
	Size  int64 `json:"size" yaml:"size"`
}

// TotalSize sums TotalSize over every project.
func (c Collection) TotalSize() int64 {
	var total int64
	for _, p := range c {
		total += p.TotalSize()
	}
	return total
}

// Breakdown returns one TypeStat per kind present, in Kind declaration order.
func (c Collection) Breakdown() []TypeStat {
	var byKind [len(kinds)]TypeStat
	for _, p := range c {
		if !p.Kind.valid() {
			continue
		}
		st := &byKind[p.Kind]
		st.Kind = p.Kind
		st.Count++
		st.Size += p.TotalSize()
	}

	var out []TypeStat
	for _, st := range byKind {
		if st.Count > 0 {
			out = append(out, st)
		}
	}
	return out
}

// Items returns the display string of every project, index-aligned with c.
func (c Collection) Items() []string {
	items := make([]string, len(c))
	for i, p := range c {
		items[i] = p.String()
	}
	return items
}

// Subset returns the projects at the given indices, in index order given.
// Out-of-range indices are ignored.
func (c Collection) Subset(indices []int) Collection {
	out := make(Collection, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(c) {
			out = append(out, c[i])
		}
	}
	return out
}
