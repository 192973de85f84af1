package models

import "fmt"

// Item is a memorized item as reported by the due-items source.
type Item struct {
	ID    string `json:"id"`
	Topic string `json:"topic"`
}

func (i Item) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("item id cannot be empty")
	}
	if i.Topic == "" {
		return fmt.Errorf("item topic cannot be empty")
	}
	return nil
}

// DueReport is the answer of the due-items source.
type DueReport struct {
	Count int    `json:"count"`
	Items []Item `json:"items,omitempty"`
}
