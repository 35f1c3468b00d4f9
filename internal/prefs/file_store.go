package prefs

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"

	"github.com/ignatzorin/quickfix/internal/logger"
	"github.com/ignatzorin/quickfix/internal/pkg/apperror"
)

// encodedPrefix отмечает значения, записанные в base64. Формат .env не хранит
// без искажений строки из цифр, кавычки и обратную косую черту в конце.
const encodedPrefix = "b64:"

// FileStore хранит настройки в файле формата .env.
// Каждая запись переписывает файл целиком через временный файл и rename.
// Значения кодируются, поэтому любая строка читается обратно без изменений.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, apperror.New(apperror.ErrCodeStorage, "путь к файлу настроек не задан")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось создать каталог настроек")
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (s *FileStore) Update(_ context.Context, set map[string]string, remove []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	applyChanges(values, set, remove)
	return s.write(values)
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось очистить настройки")
	}
	return nil
}

func (s *FileStore) read() (map[string]string, error) {
	raw, err := godotenv.Read(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return nil, apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось прочитать настройки")
		}
		// Испорченный файл не должен блокировать запуск: начинаем с пустых настроек.
		logger.Log.WithError(err).WithField("path", s.path).Warn("prefs: файл настроек повреждён, считаем его пустым")
		return make(map[string]string), nil
	}

	values := make(map[string]string, len(raw))
	for key, v := range raw {
		decoded, ok := decodeValue(v)
		if !ok {
			logger.Log.WithField("key", key).Warn("prefs: не удалось декодировать значение, пропускаем")
			continue
		}
		values[key] = decoded
	}
	return values, nil
}

func (s *FileStore) write(values map[string]string) error {
	encoded := make(map[string]string, len(values))
	for key, v := range values {
		encoded[key] = encodeValue(v)
	}
	content, err := godotenv.Marshal(encoded)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось сериализовать настройки")
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".prefs-*")
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось создать временный файл")
	}
	defer os.Remove(tmp.Name())

	if _, err := fmt.Fprintln(tmp, content); err != nil {
		tmp.Close()
		return apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось записать настройки")
	}
	if err := tmp.Close(); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось записать настройки")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось сохранить настройки")
	}
	return nil
}

func encodeValue(v string) string {
	return encodedPrefix + base64.RawURLEncoding.EncodeToString([]byte(v))
}

// decodeValue возвращает значения без префикса как есть: так читаются файлы,
// записанные до кодирования.
func decodeValue(v string) (string, bool) {
	if !strings.HasPrefix(v, encodedPrefix) {
		return v, true
	}
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(v, encodedPrefix))
	if err != nil {
		return "", false
	}
	return string(b), true
}
