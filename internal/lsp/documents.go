package lsp

import "sync"

// document is an open token file and its latest analysis.
type document struct {
	text    string
	version int32
	result  *AnalysisResult
}

// DocumentStore holds open token files keyed by URI. Analysis results are
// computed lazily and dropped whenever the text changes.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*document
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*document)}
}

func (s *DocumentStore) Open(uri, text string, version int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = &document{text: text, version: version}
}

// Update replaces the text of an open document. Changes older than the
// stored version are ignored and Update reports false.
func (s *DocumentStore) Update(uri, text string, version int32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	if !ok {
		s.docs[uri] = &document{text: text, version: version}
		return true
	}
	if version < doc.version {
		return false
	}
	doc.text = text
	doc.version = version
	doc.result = nil
	return true
}

func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

func (s *DocumentStore) Get(uri string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	if !ok {
		return "", false
	}
	return doc.text, true
}

// Analysis returns the analysis of the current text, running Analyze on
// first use after a change. It returns nil for unknown documents.
func (s *DocumentStore) Analysis(uri string) *AnalysisResult {
	s.mu.RLock()
	doc, ok := s.docs[uri]
	if !ok {
		s.mu.RUnlock()
		return nil
	}
	result, text, version := doc.result, doc.text, doc.version
	s.mu.RUnlock()
	if result != nil {
		return result
	}

	result = Analyze(uri, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	// Keep the result only if no newer text arrived meanwhile.
	if doc, ok := s.docs[uri]; ok && doc.version == version && doc.text == text {
		doc.result = result
	}
	return result
}
