// Package connectors holds the sources SOP collections are read from.
// The filesystem connector loads JSON files from a directory and watches
// it for changes; every connector hands raw bytes to a driven.Normaliser.
package connectors
