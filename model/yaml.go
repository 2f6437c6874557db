package model

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// yamlModel is the on-disk YAML layout:
//
//	name: toggle          # optional, overrides the file stem
//	species:
//	  - name: A
//	    max: 1
//	    regulators: [B]
//	    rules:
//	      - when: [0]
//	        target: 0
//	      - when: [1]
//	        target: 1
//	  - name: C
//	    max: 2
//	    default: 2
type yamlModel struct {
	Name    string        `yaml:"name,omitempty"`
	Species []yamlSpecies `yaml:"species"`
}

type yamlSpecies struct {
	Name       string     `yaml:"name"`
	Max        *int       `yaml:"max"`
	Regulators []string   `yaml:"regulators,omitempty"`
	Rules      []yamlRule `yaml:"rules"`
	Default    *int       `yaml:"default,omitempty"`
}

type yamlRule struct {
	When   []int `yaml:"when"`
	Target int   `yaml:"target"`
}

// LoadYAML decodes a model from YAML. Unknown keys are rejected. Species are
// ordered by name.
func LoadYAML(r io.Reader) (*Model, error) {
	var doc yamlModel
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyModel
		}
		return nil, &SyntaxError{Msg: err.Error()}
	}

	b := NewBuilder().SortByName().SetName(doc.Name)
	for i, s := range doc.Species {
		if s.Max == nil {
			return nil, &SyntaxError{Msg: fmt.Sprintf("species #%d (%q): missing max", i+1, s.Name)}
		}
		if len(s.Rules) == 0 && s.Default == nil {
			return nil, &SyntaxError{Msg: fmt.Sprintf("species %q has neither rules nor a default", s.Name)}
		}
		if err := b.AddSpecies(s.Name, *s.Max); err != nil {
			return nil, err
		}
	}
	for _, s := range doc.Species {
		entries := make([]Entry, len(s.Rules))
		for k, r := range s.Rules {
			entries[k] = Entry{When: r.When, Target: r.Target}
		}
		var opts []RuleOption
		if s.Default != nil {
			opts = append(opts, WithDefault(*s.Default))
		}
		if err := b.SetRule(s.Name, s.Regulators, entries, opts...); err != nil {
			return nil, err
		}
	}

	return b.Build()
}

// MarshalYAML renders m in the YAML model layout, listing every table entry
// explicitly. Round-tripping through LoadYAML yields an equivalent model.
func MarshalYAML(m *Model) ([]byte, error) {
	doc := yamlModel{Name: m.Name, Species: make([]yamlSpecies, len(m.Species))}
	for i, sp := range m.Species {
		mx := sp.Max
		ys := yamlSpecies{Name: sp.Name, Max: &mx}
		rule := m.Rules[i]
		for _, ri := range rule.regulators {
			ys.Regulators = append(ys.Regulators, m.Species[ri].Name)
		}
		rule.Entries(func(tuple []int, target int) {
			ys.Rules = append(ys.Rules, yamlRule{When: append([]int{}, tuple...), Target: target})
		})
		doc.Species[i] = ys
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("model: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("model: encode yaml: %w", err)
	}

	return buf.Bytes(), nil
}
