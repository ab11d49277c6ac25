package domain

import (
	"strings"
)

// Name is a canonicalized, fully-qualified DNS domain name. All Name values
// produced via NewName are lowercase, have no leading whitespace, and carry
// exactly one trailing dot (the root is just ".").
type Name string

// NewName canonicalizes s the same way every owner name and query name in
// this package is canonicalized: lowercased, trimmed, with a trailing dot
// appended if missing.
func NewName(s string) Name {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Name(".")
	}
	if !strings.HasSuffix(s, ".") {
		s += "."
	}
	return Name(s)
}

// Root is the DNS root zone name.
const Root Name = "."

// String returns the textual form of the name, including the trailing dot.
func (n Name) String() string {
	return string(n)
}

// IsRoot reports whether n is the root zone.
func (n Name) IsRoot() bool {
	return n == Root
}

// Labels splits n into its dot-separated labels in left-to-right order,
// with the trailing empty label from the root dot removed.
// "www.example.com." yields ["www", "example", "com"].
func (n Name) Labels() []string {
	s := strings.TrimSuffix(string(n), ".")
	if s == "" {
		return nil
	}
	return strings.Split(s, ".")
}

// LabelCount returns the number of labels in n, excluding the root label.
// The root name itself has a LabelCount of 0.
func (n Name) LabelCount() int {
	return len(n.Labels())
}

// Parent returns the immediate parent of n by stripping its leftmost label.
// Parent of the root is the root itself.
func (n Name) Parent() Name {
	labels := n.Labels()
	if len(labels) == 0 {
		return Root
	}
	return NewName(strings.Join(labels[1:], "."))
}

// Ancestor returns the suffix of n consisting of its rightmost keep labels.
// Ancestor(0) is the root. Ancestor(n.LabelCount()) is n itself.
func (n Name) Ancestor(keep int) Name {
	labels := n.Labels()
	if keep <= 0 || len(labels) == 0 {
		return Root
	}
	if keep >= len(labels) {
		return n
	}
	return NewName(strings.Join(labels[len(labels)-keep:], "."))
}

// Equal reports whether n and other are the same canonical name.
func (n Name) Equal(other Name) bool {
	return n == other
}

// IsSubdomainOf reports whether n is equal to or a descendant of zone —
// the bailiwick relation used to accept or reject delegations and glue.
func (n Name) IsSubdomainOf(zone Name) bool {
	if zone.IsRoot() {
		return true
	}
	ns, zs := string(n), string(zone)
	if ns == zs {
		return true
	}
	return strings.HasSuffix(ns, "."+zs)
}

// CommonSuffixLabels returns the number of labels n and other share as a
// common suffix, used to find the longest ancestor zone two names agree on.
func (n Name) CommonSuffixLabels(other Name) int {
	a, b := n.Labels(), other.Labels()
	i, j := len(a)-1, len(b)-1
	count := 0
	for i >= 0 && j >= 0 && a[i] == b[j] {
		count++
		i--
		j--
	}
	return count
}
