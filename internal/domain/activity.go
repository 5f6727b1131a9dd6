package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// Activity is a scheduled extracurricular offering with capacity
type Activity struct {
	Name            string   `json:"-"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// SpotsLeft is capacity minus current participants. It is not clamped at zero.
func (a Activity) SpotsLeft() int {
	return a.MaxParticipants - len(a.Participants)
}

// Catalog maps activity names to activities and remembers the order the API listed them in.
// A Catalog is never mutated after construction; filtering builds a new one.
type Catalog struct {
	names  []string
	byName map[string]Activity
}

// NewCatalog builds a catalog from activities in display order.
// A repeated name keeps its first position and takes the last value.
func NewCatalog(activities ...Activity) Catalog {
	c := Catalog{
		names:  make([]string, 0, len(activities)),
		byName: make(map[string]Activity, len(activities)),
	}
	for _, a := range activities {
		if _, seen := c.byName[a.Name]; !seen {
			c.names = append(c.names, a.Name)
		}
		c.byName[a.Name] = a
	}
	return c
}

// Len returns the number of activities
func (c Catalog) Len() int {
	return len(c.names)
}

// Names returns activity names in display order
func (c Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Get looks up an activity by exact name
func (c Catalog) Get(name string) (Activity, bool) {
	a, ok := c.byName[name]
	return a, ok
}

// Activities returns all activities in display order
func (c Catalog) Activities() []Activity {
	out := make([]Activity, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, c.byName[name])
	}
	return out
}

// FilterByName keeps the activities whose name contains text, ignoring case.
// An empty text keeps everything.
func (c Catalog) FilterByName(text string) Catalog {
	folder := cases.Fold()
	needle := folder.String(text)

	kept := make([]Activity, 0, len(c.names))
	for _, name := range c.names {
		if strings.Contains(folder.String(name), needle) {
			kept = append(kept, c.byName[name])
		}
	}
	return NewCatalog(kept...)
}
