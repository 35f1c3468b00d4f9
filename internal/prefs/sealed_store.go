package prefs

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"maps"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/ignatzorin/quickfix/internal/logger"
	"github.com/ignatzorin/quickfix/internal/pkg/apperror"
)

const sealedPrefix = "sealed:"

// SealedStore шифрует выбранные ключи (например, токен) перед записью во вложенное хранилище.
// Значение, которое не удаётся расшифровать, считается отсутствующим.
type SealedStore struct {
	inner Store
	key   [32]byte
	keys  map[string]struct{}
}

// NewSealedStore оборачивает хранилище; ключ шифрования выводится из secret.
func NewSealedStore(inner Store, secret string, sealedKeys ...string) *SealedStore {
	s := &SealedStore{
		inner: inner,
		key:   sha256.Sum256([]byte(secret)),
		keys:  make(map[string]struct{}, len(sealedKeys)),
	}
	for _, k := range sealedKeys {
		s.keys[k] = struct{}{}
	}
	return s
}

func (s *SealedStore) Get(ctx context.Context, key string) (string, bool, error) {
	raw, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return raw, ok, err
	}
	if _, sealed := s.keys[key]; !sealed {
		return raw, true, nil
	}
	plain, err := s.open(raw)
	if err != nil {
		logger.Log.WithField("key", key).Warn("prefs: не удалось расшифровать значение, считаем его пустым")
		return "", false, nil
	}
	return plain, true, nil
}

func (s *SealedStore) Update(ctx context.Context, set map[string]string, remove []string) error {
	out := maps.Clone(set)
	for k, v := range set {
		if _, sealed := s.keys[k]; !sealed {
			continue
		}
		box, err := s.seal(v)
		if err != nil {
			return err
		}
		out[k] = box
	}
	return s.inner.Update(ctx, out, remove)
}

func (s *SealedStore) Clear(ctx context.Context) error {
	return s.inner.Clear(ctx)
}

func (s *SealedStore) seal(plain string) (string, error) {
	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось сгенерировать nonce")
	}
	box := secretbox.Seal(nonce[:], []byte(plain), &nonce, &s.key)
	return sealedPrefix + base64.RawURLEncoding.EncodeToString(box), nil
}

func (s *SealedStore) open(raw string) (string, error) {
	if !strings.HasPrefix(raw, sealedPrefix) {
		return "", apperror.New(apperror.ErrCodeStorage, "значение не зашифровано")
	}
	box, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(raw, sealedPrefix))
	if err != nil || len(box) < 24+secretbox.Overhead {
		return "", apperror.New(apperror.ErrCodeStorage, "повреждённое значение")
	}
	var nonce [24]byte
	copy(nonce[:], box[:24])
	plain, ok := secretbox.Open(nil, box[24:], &nonce, &s.key)
	if !ok {
		return "", apperror.New(apperror.ErrCodeStorage, "неверный ключ шифрования")
	}
	return string(plain), nil
}
