package config

import (
	"bytes"
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/pelletier/go-toml/v2"
)

var sectionHeader = regexp.MustCompile(`^\s*\[([^\]]+)\]\s*$`)

// WriteConfigOrdered writes the configuration to path atomically. Keys keep
// their struct order and tables are sorted by name.
func WriteConfigOrdered(cfg *Config, path string) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := atomic.WriteFile(path, strings.NewReader(sortTOMLSections(buf.String()))); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

type tomlSection struct {
	header string
	lines  []string
}

// sortTOMLSections reorders tables alphabetically. Lines before the first
// table stay on top.
func sortTOMLSections(content string) string {
	var preamble []string
	var sections []tomlSection

	for _, line := range strings.Split(content, "\n") {
		if m := sectionHeader.FindStringSubmatch(line); m != nil {
			sections = append(sections, tomlSection{header: m[1], lines: []string{line}})
			continue
		}
		if len(sections) == 0 {
			preamble = append(preamble, line)
			continue
		}
		last := &sections[len(sections)-1]
		last.lines = append(last.lines, line)
	}

	slices.SortStableFunc(sections, func(a, b tomlSection) int {
		return cmp.Compare(a.header, b.header)
	})

	var out strings.Builder
	writeBlock := func(lines []string) {
		body := strings.Trim(strings.Join(lines, "\n"), "\n")
		if body == "" {
			return
		}
		if out.Len() > 0 {
			out.WriteString("\n\n")
		}
		out.WriteString(body)
	}
	writeBlock(preamble)
	for _, sec := range sections {
		writeBlock(sec.lines)
	}
	if out.Len() > 0 {
		out.WriteString("\n")
	}
	return out.String()
}
