package model

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// lineDecl is one syntactically valid species line.
type lineDecl struct {
	line       int
	name       string
	max        int
	regulators []string
	entries    []Entry
	def        *int
}

// ParseText reads a model in the line format from r. Species are ordered by
// name. Syntax errors are *SyntaxError; semantic errors come from Builder.Build.
func ParseText(r io.Reader) (*Model, error) {
	decls, err := scanLines(r)
	if err != nil {
		return nil, err
	}

	b := NewBuilder().SortByName()
	for _, d := range decls {
		if err = b.AddSpecies(d.name, d.max); err != nil {
			return nil, fmt.Errorf("line %d: %w", d.line, err)
		}
	}
	for _, d := range decls {
		var opts []RuleOption
		if d.def != nil {
			opts = append(opts, WithDefault(*d.def))
		}
		if err = b.SetRule(d.name, d.regulators, d.entries, opts...); err != nil {
			return nil, fmt.Errorf("line %d: %w", d.line, err)
		}
	}

	return b.Build()
}

// scanLines performs the syntax control: every non-blank, non-comment line
// must be a complete species declaration.
func scanLines(r io.Reader) ([]lineDecl, error) {
	var (
		decls []lineDecl
		n     int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		n++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		d, err := parseLine(text)
		if err != nil {
			return nil, &SyntaxError{Line: n, Msg: err.Error()}
		}
		d.line = n
		decls = append(decls, d)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("model: read: %w", err)
	}

	return decls, nil
}

// parseLine splits NAME:MAX [<- REGS] [: ENTRIES] [| DEFAULT].
func parseLine(text string) (lineDecl, error) {
	var d lineDecl

	// 1. Optional default after '|'.
	if i := strings.IndexByte(text, '|'); i >= 0 {
		v, err := parseValue(text[i+1:], "default")
		if err != nil {
			return d, err
		}
		d.def = &v
		text = text[:i]
	}

	// 2. Name before the first ':'.
	colon := strings.IndexByte(text, ':')
	if colon < 0 {
		return d, fmt.Errorf("missing ':' after species name")
	}
	d.name = strings.TrimSpace(text[:colon])
	if !namePattern.MatchString(d.name) {
		return d, fmt.Errorf("invalid species name %q", d.name)
	}
	rest := text[colon+1:]

	// 3. Optional entries after the second ':'.
	var entriesText string
	hasEntries := false
	if i := strings.IndexByte(rest, ':'); i >= 0 {
		entriesText = rest[i+1:]
		rest = rest[:i]
		hasEntries = true
	}

	// 4. Maximum, then optional regulators after '<-'.
	maxText := rest
	if i := strings.Index(rest, "<-"); i >= 0 {
		maxText = rest[:i]
		regs, err := parseRegulators(rest[i+2:])
		if err != nil {
			return d, err
		}
		d.regulators = regs
	}
	v, err := parseValue(maxText, "maximum")
	if err != nil {
		return d, err
	}
	d.max = v

	if hasEntries {
		if d.entries, err = parseEntries(entriesText); err != nil {
			return d, err
		}
	}
	if !hasEntries && d.def == nil {
		return d, fmt.Errorf("species %q has neither entries nor a default", d.name)
	}

	return d, nil
}

func parseRegulators(text string) ([]string, error) {
	parts := strings.Split(text, ",")
	regs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if !namePattern.MatchString(p) {
			return nil, fmt.Errorf("invalid regulator name %q", p)
		}
		regs = append(regs, p)
	}

	return regs, nil
}

func parseEntries(text string) ([]Entry, error) {
	var entries []Entry
	for _, part := range strings.Split(text, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		eq := strings.IndexByte(part, '=')
		if eq < 0 || strings.Count(part, "=") != 1 {
			return nil, fmt.Errorf("entry %q: want TUPLE=TARGET", part)
		}
		fields := strings.Fields(part[:eq])
		when := make([]int, len(fields))
		for k, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil || v < 0 {
				return nil, fmt.Errorf("entry %q: invalid value %q", part, f)
			}
			when[k] = v
		}
		target, err := parseValue(part[eq+1:], "target")
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", part, err)
		}
		entries = append(entries, Entry{When: when, Target: target})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("empty entry list")
	}

	return entries, nil
}

func parseValue(text, what string) (int, error) {
	text = strings.TrimSpace(text)
	v, err := strconv.Atoi(text)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s %q", what, text)
	}

	return v, nil
}
