// Package normalisers holds implementations of the driven.Normaliser
// interface. A normaliser turns raw file content into canonical SOPs and
// never rejects a record for missing or mistyped fields.
package normalisers
