package token

// Collection is the ordered set of tokens owned by one field. Insertion order
// is display order. A token pointer is held at most once.
type Collection struct {
	items []*Token
}

func NewCollection() *Collection { return &Collection{} }

// Add appends t. It reports false for nil or an already present token.
func (c *Collection) Add(t *Token) bool {
	if t == nil || c.Contains(t) {
		return false
	}
	c.items = append(c.items, t)
	return true
}

// Remove deletes t, preserving the order of the rest.
func (c *Collection) Remove(t *Token) bool {
	i := c.Index(t)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return true
}

func (c *Collection) Contains(t *Token) bool { return c.Index(t) >= 0 }

func (c *Collection) Index(t *Token) int {
	if t == nil {
		return -1
	}
	for i, it := range c.items {
		if it == t {
			return i
		}
	}
	return -1
}

func (c *Collection) Len() int { return len(c.items) }

func (c *Collection) At(i int) *Token {
	if i < 0 || i >= len(c.items) {
		return nil
	}
	return c.items[i]
}

func (c *Collection) Last() *Token { return c.At(len(c.items) - 1) }

// Tokens returns a copy of the tokens in order.
func (c *Collection) Tokens() []*Token {
	if len(c.items) == 0 {
		return nil
	}
	return append([]*Token(nil), c.items...)
}

func (c *Collection) Clear() { c.items = nil }

// Titles returns the non-empty titles in order.
func (c *Collection) Titles() []string {
	out := make([]string, 0, len(c.items))
	for _, t := range c.items {
		if t.Title != "" {
			out = append(out, t.Title)
		}
	}
	return out
}

// Values returns each token's Object, or its title when the object is nil.
// Tokens with neither are skipped.
func (c *Collection) Values() []any {
	out := make([]any, 0, len(c.items))
	for _, t := range c.items {
		switch {
		case t.Object != nil:
			out = append(out, t.Object)
		case t.Title != "":
			out = append(out, t.Title)
		}
	}
	return out
}
