package models

// ClientMap is the customer roster: AFM to customer id, the set of known ids,
// and AFM to display name. It is built once per run and read-only afterwards.
type ClientMap struct {
	ByAFM  map[string]int
	IDs    map[int]struct{}
	Names  map[string]string
	Source string
}

// NewClientMap returns an empty roster.
func NewClientMap() *ClientMap {
	return &ClientMap{
		ByAFM: make(map[string]int),
		IDs:   make(map[int]struct{}),
		Names: make(map[string]string),
	}
}

// Add registers one roster row. afm must already be normalized.
func (c *ClientMap) Add(afm string, id int, name string) {
	if afm != "" {
		c.ByAFM[afm] = id
		if name != "" {
			c.Names[afm] = name
		}
	}
	c.IDs[id] = struct{}{}
}

// Lookup returns the customer id registered for afm.
func (c *ClientMap) Lookup(afm string) (int, bool) {
	if c == nil || afm == "" {
		return 0, false
	}
	id, ok := c.ByAFM[afm]
	return id, ok
}

// HasID reports whether id belongs to the roster.
func (c *ClientMap) HasID(id int) bool {
	if c == nil {
		return false
	}
	_, ok := c.IDs[id]
	return ok
}

// Name returns the roster name for afm.
func (c *ClientMap) Name(afm string) string {
	if c == nil {
		return ""
	}
	return c.Names[afm]
}

// Len is the number of AFM entries.
func (c *ClientMap) Len() int {
	if c == nil {
		return 0
	}
	return len(c.ByAFM)
}
