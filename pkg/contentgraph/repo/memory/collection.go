package memory

// collection is an insertion-ordered set of records keyed by id. It is not
// safe for concurrent use; Repository guards it.
type collection[T any] struct {
	items []*T
	index map[string]int
	id    func(*T) string
	clone func(*T) *T
}

func newCollection[T any](id func(*T) string, clone func(*T) *T) *collection[T] {
	return &collection[T]{
		index: make(map[string]int),
		id:    id,
		clone: clone,
	}
}

func (c *collection[T]) insert(item *T) bool {
	key := c.id(item)
	if _, exists := c.index[key]; exists {
		return false
	}
	c.index[key] = len(c.items)
	c.items = append(c.items, c.clone(item))
	return true
}

func (c *collection[T]) get(id string) (*T, bool) {
	i, exists := c.index[id]
	if !exists {
		return nil, false
	}
	return c.clone(c.items[i]), true
}

func (c *collection[T]) replace(item *T) bool {
	i, exists := c.index[c.id(item)]
	if !exists {
		return false
	}
	c.items[i] = c.clone(item)
	return true
}

func (c *collection[T]) remove(id string) (*T, bool) {
	i, exists := c.index[id]
	if !exists {
		return nil, false
	}
	removed := c.items[i]
	c.items = append(c.items[:i], c.items[i+1:]...)
	delete(c.index, id)
	c.reindex(i)
	return removed, true
}

// removeWhere deletes every record selected by match, keeping the order of
// the survivors.
func (c *collection[T]) removeWhere(match func(*T) bool) []*T {
	var removed []*T
	kept := c.items[:0]
	for _, item := range c.items {
		if match == nil || match(item) {
			removed = append(removed, item)
			delete(c.index, c.id(item))
			continue
		}
		kept = append(kept, item)
	}
	// Clear the tail so removed records can be collected.
	for i := len(kept); i < len(c.items); i++ {
		c.items[i] = nil
	}
	c.items = kept
	if len(removed) > 0 {
		c.reindex(0)
	}
	return removed
}

func (c *collection[T]) list(match func(*T) bool) []*T {
	result := make([]*T, 0, len(c.items))
	for _, item := range c.items {
		if match == nil || match(item) {
			result = append(result, c.clone(item))
		}
	}
	return result
}

func (c *collection[T]) reindex(from int) {
	if from == 0 {
		clear(c.index)
	}
	for i := from; i < len(c.items); i++ {
		c.index[c.id(c.items[i])] = i
	}
}
