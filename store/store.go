package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vivekkumar9751/smart-doc-assistant/models"
)

// DocumentStore holds the single active document for the process. Every
// upload replaces the previous document. Access is mutex-guarded so a
// concurrent upload cannot tear a request's view of the slot, and each
// document carries an ID so cached challenge questions are dropped when
// they belong to a replaced upload.
type DocumentStore struct {
	mu         sync.RWMutex
	id         string
	text       string
	summary    string
	questions  []models.ChallengeQuestion
	uploadedAt time.Time
}

// Snapshot is a consistent read of the store taken under the lock.
type Snapshot struct {
	ID         string
	Text       string
	Summary    string
	Questions  []models.ChallengeQuestion
	UploadedAt time.Time
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{}
}

// Replace installs a new document and returns its ID. Challenge questions
// cached for the previous document are discarded.
func (s *DocumentStore) Replace(text, summary string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = uuid.NewString()
	s.text = text
	s.summary = summary
	s.questions = nil
	s.uploadedAt = time.Now()
	return s.id
}

// Current returns a snapshot of the active document, or false when nothing
// has been uploaded yet.
func (s *DocumentStore) Current() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.id == "" {
		return Snapshot{}, false
	}
	return Snapshot{
		ID:         s.id,
		Text:       s.text,
		Summary:    s.summary,
		Questions:  s.questions,
		UploadedAt: s.uploadedAt,
	}, true
}

// SetQuestions caches challenge questions for the given document. The write
// is ignored when the document has been replaced since the questions were
// generated.
func (s *DocumentStore) SetQuestions(docID string, questions []models.ChallengeQuestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id != docID {
		return
	}
	s.questions = questions
}
