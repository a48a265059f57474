package model

import (
	"bytes"
	"fmt"
	"strconv"
)

// TodoItem is a to-do entry as the remote service describes it.
// The id is assigned server-side and is required for updates.
type TodoItem struct {
	ID   ItemID `json:"id"`
	Task string `json:"task"`
	Done bool   `json:"done"`
}

// Toggled returns a copy of the item with Done flipped.
func (i TodoItem) Toggled() TodoItem {
	i.Done = !i.Done
	return i
}

// TodoPage is the payload of the list endpoint. Only Results is guaranteed;
// paginated listings also carry the count and neighbour links.
type TodoPage struct {
	Count    int        `json:"count,omitempty"`
	Next     *string    `json:"next,omitempty"`
	Previous *string    `json:"previous,omitempty"`
	Results  []TodoItem `json:"results"`
}

// ItemID is an opaque server identifier. It accepts JSON numbers and strings
// and writes itself back in the kind it was read as.
type ItemID struct {
	raw     string
	numeric bool
}

// IntID builds an ItemID from a numeric primary key.
func IntID(n int64) ItemID {
	return ItemID{raw: strconv.FormatInt(n, 10), numeric: true}
}

// StringID builds an ItemID from a string key.
func StringID(s string) ItemID {
	return ItemID{raw: s}
}

func (id ItemID) String() string { return id.raw }

// IsZero reports whether the server never assigned an id.
func (id ItemID) IsZero() bool { return id.raw == "" }

func (id ItemID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.raw), nil
	}
	return []byte(strconv.Quote(id.raw)), nil
}

func (id *ItemID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*id = ItemID{}
		return nil
	case b[0] == '"':
		s, err := strconv.Unquote(string(b))
		if err != nil {
			return fmt.Errorf("item id: %w", err)
		}
		*id = StringID(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(b), 64); err != nil {
		return fmt.Errorf("item id: not a number or string: %s", b)
	}
	*id = ItemID{raw: string(b), numeric: true}
	return nil
}
