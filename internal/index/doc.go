// Package index flattens SOPs into search entries and answers queries over
// them.
//
// Everything here is a pure function of its inputs. The entry list is
// rebuilt in full whenever the SOP collection changes and is never mutated
// afterwards, so a built slice can be shared freely between readers.
//
// Matching is case-insensitive substring containment. Results are grouped
// in two tiers: SOP title matches first, then section matches capped at
// SectionCap. There is no scoring, stemming or fuzzy matching.
package index
