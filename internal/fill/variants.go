package fill

import (
	"regexp"
	"strconv"
	"strings"
)

// Name-variant matching: when a mapping's literal field name has no match in
// the template, a bounded set of common transforms is tried against the real
// field names. The generators below are pure and order-independent; callers
// intersect their output with the actual field-name set and write every hit,
// so near-duplicate fields in one template all receive the same value.

var variantPrefixes = []string{"field_", "fld_", "txt_", "txt"}

var variantSuffixes = []string{"_field", "_fld", "_txt", "txt"}

// embeddedIndexToken matches a bare "n" used as an index token between
// non-alphanumeric characters, as in "joueur_n_nom".
var embeddedIndexToken = regexp.MustCompile(`([^a-zA-Z0-9])n([^a-zA-Z0-9]|$)`)

// NameVariants returns the candidate set for one field name: the name
// itself, case folds, separator substitutions, and common prefix and suffix
// decorations added and stripped.
func NameVariants(name string) []string {
	set := newStringSet()
	bases := []string{name, strings.ToLower(name), strings.ToUpper(name)}
	for _, b := range bases {
		set.add(b)
		set.add(strings.ReplaceAll(b, " ", "_"))
		set.add(strings.ReplaceAll(b, "_", " "))
		set.add(strings.ReplaceAll(b, "-", "_"))
		set.add(strings.ReplaceAll(b, "_", "-"))
		set.add(strings.ReplaceAll(b, " ", "-"))
	}
	for _, b := range []string{name, strings.ToLower(name)} {
		for _, p := range variantPrefixes {
			set.add(p + b)
			if stripped, ok := strings.CutPrefix(b, p); ok && stripped != "" {
				set.add(stripped)
			}
		}
		for _, suf := range variantSuffixes {
			set.add(b + suf)
			if stripped, ok := strings.CutSuffix(b, suf); ok && stripped != "" {
				set.add(stripped)
			}
		}
	}
	return set.values()
}

// IndexCandidates derives the field names a repeated entry may use for the
// 1-based roster position index: bracket and brace token substitution,
// trailing and embedded bare "n" substitution, plain concatenation, and
// index insertion after the first underscore-separated segment (so
// "joueur_nom[n]" can reach "joueur1_nom").
func IndexCandidates(name string, index int) []string {
	i := strconv.Itoa(index)
	set := newStringSet()

	if strings.Contains(name, "[n]") {
		set.add(strings.ReplaceAll(name, "[n]", "["+i+"]"))
		set.add(strings.ReplaceAll(name, "[n]", i))
	}
	if strings.Contains(name, "{n}") {
		set.add(strings.ReplaceAll(name, "{n}", "{"+i+"}"))
		set.add(strings.ReplaceAll(name, "{n}", i))
	}

	// Token-free base used by the remaining substitutions.
	base := strings.ReplaceAll(name, "[n]", "")
	base = strings.ReplaceAll(base, "{n}", "")

	if strings.HasSuffix(base, "n") {
		set.add(base[:len(base)-1] + i)
	}
	if replaced := embeddedIndexToken.ReplaceAllString(base, "${1}"+i+"${2}"); replaced != base {
		set.add(replaced)
	}

	set.add(base + i)
	set.add(name + i)

	if head, tail, ok := strings.Cut(base, "_"); ok && head != "" && tail != "" {
		set.add(head + i + "_" + tail)
	}

	out := make([]string, 0, len(set.order))
	for _, c := range set.values() {
		if c == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

type stringSet struct {
	seen  map[string]struct{}
	order []string
}

func newStringSet() *stringSet {
	return &stringSet{seen: make(map[string]struct{})}
}

func (s *stringSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.order = append(s.order, v)
}

func (s *stringSet) values() []string {
	return s.order
}
