// Package testutil provides shared test doubles and fixtures for backend tests.
package testutil

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"sync"
)

// ObjectStoreStub is an in-memory object store implementation for tests.
type ObjectStoreStub struct {
	mu      sync.Mutex
	objects map[string][]byte
	removed []string

	// PutErr and RemoveErr, when set, are returned by the matching call.
	PutErr    error
	RemoveErr error
}

// NewObjectStoreStub creates an in-memory object store stub for tests.
func NewObjectStoreStub() *ObjectStoreStub {
	return &ObjectStoreStub{objects: make(map[string][]byte)}
}

// Put records the object and returns a fake public URL for it.
func (s *ObjectStoreStub) Put(_ context.Context, objectName, _ string, data []byte) (string, error) {
	if s.PutErr != nil {
		return "", s.PutErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectName] = append([]byte(nil), data...)
	return "http://store.test/" + objectName, nil
}

// Remove deletes the object and records the removal.
func (s *ObjectStoreStub) Remove(_ context.Context, objectName string) error {
	if s.RemoveErr != nil {
		return s.RemoveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, objectName)
	s.removed = append(s.removed, objectName)
	return nil
}

// Object returns the stored bytes for an object name, if present.
func (s *ObjectStoreStub) Object(objectName string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[objectName]
	return data, ok
}

// ObjectNames returns the names of all stored objects.
func (s *ObjectStoreStub) ObjectNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.objects))
	for name := range s.objects {
		names = append(names, name)
	}
	return names
}

// Removed returns object names passed to Remove, in call order.
func (s *ObjectStoreStub) Removed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.removed...)
}

// TinyPNG returns an in-memory PNG byte slice with the requested dimensions.
func TinyPNG(t interface {
	Helper()
	Fatalf(string, ...any)
}, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	buf := bytes.NewBuffer(nil)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
