package core

import (
	"context"
	"fmt"
	"strings"
)

// NamedEntityCollection is an ordered list of entities backing a multi-valued
// issue field. It keeps the contents it was loaded with so that a save only
// sends the field when the set of entities actually changed.
//
// The collection is not safe for concurrent use.
type NamedEntityCollection[T interface {
	comparable
	NamedEntity
}] struct {
	fieldName string
	baseline  []T
	items     []T
}

func NewNamedEntityCollection[T interface {
	comparable
	NamedEntity
}](fieldName string, items []T) *NamedEntityCollection[T] {
	return &NamedEntityCollection[T]{
		fieldName: strings.TrimSpace(fieldName),
		baseline:  append([]T(nil), items...),
		items:     append([]T(nil), items...),
	}
}

func (c *NamedEntityCollection[T]) FieldName() string {
	if c == nil {
		return ""
	}
	return c.fieldName
}

func (c *NamedEntityCollection[T]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Items returns a copy of the current contents in order.
func (c *NamedEntityCollection[T]) Items() []T {
	if c == nil {
		return []T{}
	}
	return append([]T{}, c.items...)
}

// IDs returns the identifiers of the current contents in order.
func (c *NamedEntityCollection[T]) IDs() []string {
	if c == nil {
		return []string{}
	}
	ids := make([]string, 0, len(c.items))
	for _, item := range c.items {
		ids = append(ids, item.EntityID())
	}
	return ids
}

func (c *NamedEntityCollection[T]) At(index int) (T, error) {
	var zero T
	if err := c.checkIndex(index, c.Len()); err != nil {
		return zero, err
	}
	return c.items[index], nil
}

func (c *NamedEntityCollection[T]) Add(entity T) {
	if c == nil {
		return
	}
	c.items = append(c.items, entity)
}

// Insert places entity at index; index == Len() appends.
func (c *NamedEntityCollection[T]) Insert(index int, entity T) error {
	if err := c.checkIndex(index, c.Len()+1); err != nil {
		return err
	}
	c.items = append(c.items, entity)
	copy(c.items[index+1:], c.items[index:])
	c.items[index] = entity
	return nil
}

func (c *NamedEntityCollection[T]) Set(index int, entity T) error {
	if err := c.checkIndex(index, c.Len()); err != nil {
		return err
	}
	c.items[index] = entity
	return nil
}

func (c *NamedEntityCollection[T]) RemoveAt(index int) error {
	if err := c.checkIndex(index, c.Len()); err != nil {
		return err
	}
	c.items = append(c.items[:index], c.items[index+1:]...)
	return nil
}

// Remove deletes the first element equal to entity and reports whether one
// was found.
func (c *NamedEntityCollection[T]) Remove(entity T) bool {
	if c == nil {
		return false
	}
	for i, item := range c.items {
		if item == entity {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveByName deletes the first element whose name matches, ignoring case.
func (c *NamedEntityCollection[T]) RemoveByName(name string) error {
	index := c.indexOfName(name)
	if index < 0 {
		return NewEntityNotFoundError(c.FieldName(), name)
	}
	c.items = append(c.items[:index], c.items[index+1:]...)
	return nil
}

// ContainsByName reports whether any element is named name, ignoring case.
func (c *NamedEntityCollection[T]) ContainsByName(name string) bool {
	return c.indexOfName(name) >= 0
}

// ComputeFieldDelta returns the replacement payload for this field and true
// when the current contents differ from the baseline as a multiset. Order is
// ignored for the comparison but preserved in the payload.
func (c *NamedEntityCollection[T]) ComputeFieldDelta() (FieldUpdate, bool) {
	if c == nil || sameElements(c.baseline, c.items) {
		return FieldUpdate{}, false
	}
	return FieldUpdate{
		ID:     c.fieldName,
		Values: c.IDs(),
	}, true
}

func (c *NamedEntityCollection[T]) FieldUpdates(context.Context) ([]FieldUpdate, error) {
	update, changed := c.ComputeFieldDelta()
	if !changed {
		return []FieldUpdate{}, nil
	}
	return []FieldUpdate{update}, nil
}

func (c *NamedEntityCollection[T]) indexOfName(name string) int {
	if c == nil {
		return -1
	}
	for i, item := range c.items {
		if strings.EqualFold(item.EntityName(), name) {
			return i
		}
	}
	return -1
}

func (c *NamedEntityCollection[T]) checkIndex(index int, upper int) error {
	if c == nil {
		return NewBadInputError("core: collection is nil", nil)
	}
	if index < 0 || index >= upper {
		return NewBadInputError(
			fmt.Sprintf("core: index %d out of range for %s", index, c.fieldName),
			map[string]any{"field": c.fieldName, "index": index, "len": len(c.items)},
		)
	}
	return nil
}

func sameElements[T comparable](left []T, right []T) bool {
	if len(left) != len(right) {
		return false
	}
	counts := make(map[T]int, len(left))
	for _, item := range left {
		counts[item]++
	}
	for _, item := range right {
		if counts[item] == 0 {
			return false
		}
		counts[item]--
	}
	return true
}
