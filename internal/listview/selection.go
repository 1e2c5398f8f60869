package listview

import "sort"

// Selection is the set of mention ids marked for bulk action. It is
// independent of the page being displayed. Operations return a new set and
// never modify the receiver.
type Selection map[int64]struct{}

// NewSelection returns a selection holding ids
func NewSelection(ids ...int64) Selection {
	s := make(Selection, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is selected
func (s Selection) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of selected ids
func (s Selection) Len() int {
	return len(s)
}

// IDs returns the selected ids in ascending order
func (s Selection) IDs() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s Selection) clone() Selection {
	c := make(Selection, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// Toggle flips the membership of id
func (s Selection) Toggle(id int64) Selection {
	c := s.clone()
	if c.Has(id) {
		delete(c, id)
	} else {
		c[id] = struct{}{}
	}
	return c
}

// With adds ids
func (s Selection) With(ids ...int64) Selection {
	c := s.clone()
	for _, id := range ids {
		c[id] = struct{}{}
	}
	return c
}

// Without removes ids
func (s Selection) Without(ids ...int64) Selection {
	c := s.clone()
	for _, id := range ids {
		delete(c, id)
	}
	return c
}

// PageSelection is the tri-state of the select-all-on-page control
type PageSelection int

const (
	PageSelectionNone PageSelection = iota
	PageSelectionPartial
	PageSelectionAll
)

func (p PageSelection) String() string {
	switch p {
	case PageSelectionAll:
		return "all"
	case PageSelectionPartial:
		return "partial"
	default:
		return "none"
	}
}
