package api

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

type pendingDownload struct {
	filename  string
	content   []byte
	expiresAt time.Time
}

// downloadStore 预览结果的一次性下载令牌
type downloadStore struct {
	mu    sync.Mutex
	items map[string]pendingDownload
	now   func() time.Time
}

func newDownloadStore() *downloadStore {
	return &downloadStore{
		items: make(map[string]pendingDownload),
		now:   time.Now,
	}
}

func (s *downloadStore) put(filename string, content []byte, ttl time.Duration) (token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpiredLocked(now)

	token = newRandomToken(24)
	s.items[token] = pendingDownload{
		filename:  filename,
		content:   content,
		expiresAt: now.Add(ttl),
	}
	return token
}

// take 取出并作废令牌
func (s *downloadStore) take(token string) (pendingDownload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpiredLocked(now)

	v, ok := s.items[token]
	if !ok {
		return pendingDownload{}, false
	}
	delete(s.items, token)
	return v, true
}

func (s *downloadStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			delete(s.items, k)
		}
	}
}

func newRandomToken(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
