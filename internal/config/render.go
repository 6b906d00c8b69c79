package config

import (
	"fmt"
	"strings"
)

// RenderDefaultTOML renders a TOML config with defaults from GetConfigOptions.
func RenderDefaultTOML() string {
	var b strings.Builder
	b.WriteString("# markpad configuration (TOML)\n\n")

	top, sections, order := splitSections(GetConfigOptions())
	for _, o := range top {
		b.WriteString(formatOption(o))
	}
	for _, section := range order {
		b.WriteString("[" + section + "]\n")
		for _, o := range sections[section] {
			b.WriteString(formatOption(o))
		}
	}
	return b.String()
}

// UpdateTOML merges missing default options into an existing TOML document and
// comments out keys that are no longer part of the schema. Missing keys are
// placed inside their existing section so no table header is repeated. It
// reports whether anything changed.
func UpdateTOML(existing string) (string, bool) {
	known := make(map[string]bool)
	for _, o := range GetConfigOptions() {
		known[o.Key] = true
	}

	lines := strings.Split(existing, "\n")
	seen := make(map[string]bool)
	present := make(map[string]bool)
	section := ""
	for _, line := range lines {
		trim := strings.TrimSpace(line)
		if name, ok := sectionHeader(trim); ok {
			section = name
			present[section] = true
			continue
		}
		if key, ok := parseTOMLKey(trim); ok && !strings.HasPrefix(trim, "#") {
			seen[qualify(section, key)] = true
		}
	}

	var missing []ConfigOption
	for _, o := range GetConfigOptions() {
		if !seen[o.Key] {
			missing = append(missing, o)
		}
	}
	top, sections, order := splitSections(missing)

	out := make([]string, 0, len(lines))
	changed := false
	emit := func(opts []ConfigOption) {
		for _, o := range opts {
			out = append(out, strings.Split(strings.TrimRight(formatOption(o), "\n"), "\n")...)
			changed = true
		}
	}

	section = ""
	topDone := false
	for _, line := range lines {
		trim := strings.TrimSpace(line)
		if name, ok := sectionHeader(trim); ok {
			if !topDone {
				emit(top)
				topDone = true
			} else {
				emit(sections[section])
			}
			section = name
			out = append(out, line)
			continue
		}
		if key, ok := parseTOMLKey(trim); ok && !strings.HasPrefix(trim, "#") && !known[qualify(section, key)] {
			out = append(out, "# OUTDATED: option removed from config schema", "# "+trim)
			changed = true
			continue
		}
		out = append(out, line)
	}
	if !topDone {
		emit(top)
	} else {
		emit(sections[section])
	}
	for _, s := range order {
		if present[s] {
			continue
		}
		out = append(out, "["+s+"]")
		emit(sections[s])
	}
	return strings.Join(out, "\n"), changed
}

func sectionHeader(trim string) (string, bool) {
	if strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]") {
		return strings.TrimSpace(trim[1 : len(trim)-1]), true
	}
	return "", false
}

func qualify(section, key string) string {
	if section == "" {
		return key
	}
	return section + "." + key
}

// splitSections separates undotted keys from "section.key" ones, keeping
// first-seen section order. Section option keys are returned without prefix.
func splitSections(opts []ConfigOption) ([]ConfigOption, map[string][]ConfigOption, []string) {
	var top []ConfigOption
	sections := make(map[string][]ConfigOption)
	var order []string
	for _, o := range opts {
		section, key, ok := strings.Cut(o.Key, ".")
		if !ok {
			top = append(top, o)
			continue
		}
		if _, exists := sections[section]; !exists {
			order = append(order, section)
		}
		sections[section] = append(sections[section], ConfigOption{Key: key, Default: o.Default, Comment: o.Comment})
	}
	return top, sections, order
}

func parseTOMLKey(line string) (string, bool) {
	key, _, ok := strings.Cut(line, "=")
	if !ok {
		return "", false
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key[:1], `"'[`) {
		return "", false
	}
	return key, true
}

func formatOption(o ConfigOption) string {
	var b strings.Builder
	if o.Comment != "" {
		b.WriteString("# " + o.Comment + "\n")
	}
	switch v := o.Default.(type) {
	case string:
		b.WriteString(fmt.Sprintf("%s = %q\n\n", o.Key, v))
	default:
		b.WriteString(fmt.Sprintf("%s = %v\n\n", o.Key, v))
	}
	return b.String()
}
