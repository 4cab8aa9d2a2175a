// Package defect schedules the calibrated anomalies injected into the
// generated dataset.
//
// A Policy is a static table keyed by (year, month, file kind). Exactly two
// call sites consult it: the monthly generator asks for field-level kinds
// (blanked fields, duplicated transaction ids, the alternate date format),
// and the runner asks for structural kinds when it prepares writer options
// (delimiter, encoding, BOM, damaged lines, empty or suppressed files).
// Reference and quarterly tables are never subject to a Policy.
package defect

import "sort"

// Kind identifies one anomaly family.
type Kind string

// Field-level kinds alter row content during generation; the remaining kinds
// alter how a file is serialized, or whether it exists at all.
const (
	MissingFile   Kind = "missing_file"
	EmptyFile     Kind = "empty_file"
	AltDelimiter  Kind = "different_delimiter"
	BOM           Kind = "bom_file"
	WrongEncoding Kind = "wrong_encoding"
	DamagedLines  Kind = "damaged_lines"
	MissingFields Kind = "missing_fields"
	DuplicateTxns Kind = "duplicate_transactions"
	AltDateFormat Kind = "date_format_variant"
)

// FileKind names one of the four monthly tables.
type FileKind string

const (
	Sales     FileKind = "sales"
	Inventory FileKind = "inventory"
	Refunds   FileKind = "refunds"
	Marketing FileKind = "marketing_spend"
)

// Target pins a Kind to one file of one calendar month.
type Target struct {
	Year  int
	Month int
	File  FileKind
}

// Set is the collection of kinds active for a single (year, month, file).
// A nil Set is valid and empty.
type Set map[Kind]struct{}

// Has reports whether k is active.
func (s Set) Has(k Kind) bool {
	_, ok := s[k]
	return ok
}

// Policy maps calendar coordinates to anomaly kinds. The zero Policy applies
// nothing; Default returns the built-in schedule.
type Policy struct {
	table map[Target]Set
}

// New builds a Policy from explicit kind-to-targets assignments. A target may
// appear under several kinds; the kinds accumulate.
func New(entries map[Kind][]Target) Policy {
	table := make(map[Target]Set)
	for kind, targets := range entries {
		for _, t := range targets {
			s, ok := table[t]
			if !ok {
				s = make(Set)
				table[t] = s
			}
			s[kind] = struct{}{}
		}
	}
	return Policy{table: table}
}

// Default returns the built-in schedule. Every anomaly family appears at
// least twice across 2023-2025, never twice on the same file of the same
// month, so each family can be exercised in isolation.
func Default() Policy {
	return New(map[Kind][]Target{
		MissingFile:   {{2023, 3, Inventory}, {2024, 6, Marketing}, {2025, 9, Refunds}},
		EmptyFile:     {{2023, 7, Refunds}, {2024, 11, Inventory}},
		AltDelimiter:  {{2023, 5, Sales}, {2024, 8, Inventory}},
		BOM:           {{2023, 9, Sales}, {2024, 12, Marketing}},
		WrongEncoding: {{2023, 8, Marketing}, {2024, 2, Sales}},
		DamagedLines:  {{2023, 2, Sales}, {2024, 7, Inventory}},
		MissingFields: {{2023, 6, Sales}, {2024, 10, Refunds}},
		DuplicateTxns: {{2023, 4, Sales}, {2024, 11, Sales}},
		AltDateFormat: {{2023, 10, Sales}, {2024, 5, Refunds}},
	})
}

// Kinds returns the set active for one file of one month. The returned Set
// is shared; callers must not mutate it.
func (p Policy) Kinds(year, month int, file FileKind) Set {
	return p.table[Target{Year: year, Month: month, File: file}]
}

// Entry pairs a target with every kind scheduled for it.
type Entry struct {
	Target Target
	Kinds  []Kind
}

// Schedule returns every scheduled target ordered by year, month and file,
// with kinds sorted inside each entry. Used for plan listings.
func (p Policy) Schedule() []Entry {
	entries := make([]Entry, 0, len(p.table))
	for t, set := range p.table {
		kinds := make([]Kind, 0, len(set))
		for k := range set {
			kinds = append(kinds, k)
		}
		sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
		entries = append(entries, Entry{Target: t, Kinds: kinds})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].Target, entries[j].Target
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		return a.File < b.File
	})
	return entries
}
