// Package markup provides a key/value tree view of markup documents.
// Keys are lower-cased element names, so lookups are case-insensitive.
package markup

import "strings"

// Config is one element of a markup tree.
type Config struct {
	key      string
	text     string
	children []*Config
}

// New creates a Config with the given key and text value.
func New(key, text string) *Config {
	return &Config{key: strings.ToLower(key), text: text}
}

// Key returns the lower-cased element name.
func (c *Config) Key() string {
	return c.key
}

// Text returns the trimmed character data of this element.
func (c *Config) Text() string {
	return c.text
}

// Add appends a child and returns it.
func (c *Config) Add(child *Config) *Config {
	c.children = append(c.children, child)
	return child
}

// AddValue appends a leaf child holding text.
func (c *Config) AddValue(key, text string) *Config {
	return c.Add(New(key, text))
}

// Children returns all children with the given key, or every child when key is empty.
func (c *Config) Children(key string) []*Config {
	if c == nil {
		return nil
	}
	if key == "" {
		return c.children
	}
	key = strings.ToLower(key)
	var out []*Config
	for _, ch := range c.children {
		if ch.key == key {
			out = append(out, ch)
		}
	}
	return out
}

// HasChild reports whether a child with the given key exists.
func (c *Config) HasChild(key string) bool {
	return c.Child(key) != nil
}

// Child returns the first child with the given key, or nil.
func (c *Config) Child(key string) *Config {
	if c == nil {
		return nil
	}
	key = strings.ToLower(key)
	for _, ch := range c.children {
		if ch.key == key {
			return ch
		}
	}
	return nil
}

// HasValue reports whether a child with the given key carries non-empty text.
func (c *Config) HasValue(key string) bool {
	return c.Value(key) != ""
}

// Value returns the text of the first child with the given key.
func (c *Config) Value(key string) string {
	if ch := c.Child(key); ch != nil {
		return ch.text
	}
	return ""
}
