package storage

import (
	"siplog/internal/entity/user"
)

// Waiting minutes applied when the store holds no value yet.
const defaultWaitingMinutes = 60

// InMemStorage keeps everything in process memory. It backs tests and the
// zero-config run mode. Loads and saves exchange deep copies so callers see
// the same value semantics as with the file-backed store.
type InMemStorage struct {
	doc     user.Document
	waiting int
}

func NewInMemStorage() *InMemStorage {
	return &InMemStorage{
		doc: user.NewDocument(),
	}
}

func (s *InMemStorage) LoadUsers() (user.Document, error) {
	return s.doc.Clone(), nil
}

func (s *InMemStorage) SaveUsers(doc user.Document) error {
	s.doc = doc.Clone()
	return nil
}

func (s *InMemStorage) WaitingMinutes() (int, error) {
	if s.waiting <= 0 {
		return defaultWaitingMinutes, nil
	}
	return s.waiting, nil
}

func (s *InMemStorage) SetWaitingMinutes(minutes int) error {
	s.waiting = minutes
	return nil
}
