package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage keeps object metadata only. Presigned URLs point nowhere;
// tests record uploads with Put.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string]ObjectMetadata
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string]ObjectMetadata)}
}

// Put records an object as if a client had uploaded it.
func (m *MemoryStorage) Put(objectKey, contentType string, size int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectKey] = ObjectMetadata{Key: objectKey, Size: size, ContentType: contentType, LastModified: time.Now().UTC()}
}

func (m *MemoryStorage) Has(objectKey string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[objectKey]
	return ok
}

func (m *MemoryStorage) GeneratePresignedUploadURL(_ context.Context, objectKey string, _ string, _ time.Duration) (string, error) {
	return "memory://upload/" + objectKey, nil
}

func (m *MemoryStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "memory://download/" + objectKey, nil
}

func (m *MemoryStorage) StatObject(_ context.Context, objectKey string) (*ObjectMetadata, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	meta, ok := m.objects[objectKey]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return &meta, nil
}

func (m *MemoryStorage) DeleteObject(_ context.Context, objectKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, objectKey)
	return nil
}
