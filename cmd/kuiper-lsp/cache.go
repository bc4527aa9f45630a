package main

import (
	"fmt"
	"sync"

	"github.com/jdbaldry/go-language-server-protocol/lsp/protocol"
)

// document is a single open text document: its last-known content plus the
// diagnostics produced by compiling it as a Kuiper expression.
type document struct {
	item        protocol.TextDocumentItem
	diagnostics []protocol.Diagnostic
}

// cache holds every document the client currently has open, keyed by URI.
// kuiper-lsp is diagnostics-only, so this is intentionally much smaller
// than a full language cache: no AST, no symbol index, just the text
// needed to recompile on every change.
type cache struct {
	mu   sync.RWMutex
	docs map[protocol.DocumentURI]*document
}

func newCache() *cache {
	return &cache{docs: map[protocol.DocumentURI]*document{}}
}

func (c *cache) put(doc *document) error {
	if doc == nil {
		return fmt.Errorf("cache: nil document")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs[doc.item.URI] = doc
	return nil
}

func (c *cache) get(uri protocol.DocumentURI) (*document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[uri]
	if !ok {
		return nil, fmt.Errorf("cache: no document for %s", uri)
	}
	return doc, nil
}

func (c *cache) delete(uri protocol.DocumentURI) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.docs, uri)
}
