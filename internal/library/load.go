package library

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed demo_deck.yaml
var demoDeckYAML []byte

// Demo returns the built-in psychology deck.
func Demo() *Deck {
	d, err := Parse(demoDeckYAML)
	if err != nil {
		// The embedded deck is part of the binary; failing to parse it is a
		// build defect.
		panic(fmt.Sprintf("parse embedded deck: %v", err))
	}
	return d
}

// Parse decodes and validates a YAML deck.
func Parse(data []byte) (*Deck, error) {
	var d Deck
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode deck: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Load reads a deck from path. An empty path returns the demo deck.
func Load(path string) (*Deck, error) {
	if path == "" {
		return Demo(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck %s: %w", path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("deck %s: %w", path, err)
	}
	return d, nil
}

// Marshal encodes a deck as YAML.
func Marshal(d *Deck) ([]byte, error) {
	return yaml.Marshal(d)
}
