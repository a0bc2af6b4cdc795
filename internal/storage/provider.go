// Package storage defines the library file-system abstraction.
package storage

// Provider is the read-only interface the catalog needs from document
// storage. Implementations may be backed by anything that can enumerate
// and fetch documents (local disk, an archive, a blob store).
type Provider interface {
	// List returns the library-relative slash paths of every recognized
	// document, in traversal order.
	List() ([]string, error)
	// Read returns the raw bytes of the document at path (relative to
	// the library root).
	Read(path string) ([]byte, error)
}
