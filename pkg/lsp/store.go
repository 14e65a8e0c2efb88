package lsp

import "sync"

// DocumentStore is the editor's view of open documents, keyed by URI. The
// zero value is ready to use.
type DocumentStore struct {
	docs sync.Map
}

// NewDocumentStore returns an empty store.
func NewDocumentStore() *DocumentStore { return &DocumentStore{} }

// Set replaces the text held for uri.
func (s *DocumentStore) Set(uri, text string) { s.docs.Store(uri, text) }

// Get returns the text held for uri, if the document is open.
func (s *DocumentStore) Get(uri string) (string, bool) {
	v, ok := s.docs.Load(uri)
	if !ok {
		return "", false
	}

	text, _ := v.(string)

	return text, true
}

// Delete drops uri after didClose.
func (s *DocumentStore) Delete(uri string) { s.docs.Delete(uri) }
