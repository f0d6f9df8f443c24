package domain

// RawDocument represents opaque bytes read from disk before normalisation.
type RawDocument struct {
	// URI is the original location, usually a file path.
	URI string

	// MIMEType is the content type (e.g., "application/json").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Hash is a content fingerprint used to skip unchanged files.
	Hash uint64
}

// ChangeType represents the type of file change.
type ChangeType int

const (
	// ChangeCreated indicates a new file.
	ChangeCreated ChangeType = iota

	// ChangeUpdated indicates a modified file.
	ChangeUpdated

	// ChangeDeleted indicates a removed file.
	ChangeDeleted
)

// String returns the string representation.
func (c ChangeType) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return unknownDescription
	}
}

// RawDocumentChange represents a change event from the watcher.
type RawDocumentChange struct {
	// Type is the kind of change.
	Type ChangeType

	// Document is the affected file. Content is empty for deletions.
	Document RawDocument
}
