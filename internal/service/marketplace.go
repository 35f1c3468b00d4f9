package service

import (
	"errors"
	"hash/crc32"
	"net/http"
	"sort"
	"strings"
	"unicode"

	"github.com/ignatzorin/quickfix/internal/pkg/apperror"
	"github.com/ignatzorin/quickfix/internal/render"
	"github.com/ignatzorin/quickfix/internal/repository"
)

// Ограничение по умолчанию, когда параметр запроса не передан.
const noLimit = 1e9

// Marketplace реализует правила стенда поверх хранилища в памяти.
// Все ошибки возвращаются как *apperror.AppError с HTTP-статусом и сообщением для клиента.
type Marketplace struct {
	store        *repository.MarketplaceStore
	tokens       *TokenManager
	mediaBaseURL string
}

// NewMarketplace создаёт сервис стенда. mediaBaseURL задаёт префикс ссылок на загруженные файлы.
func NewMarketplace(store *repository.MarketplaceStore, tokens *TokenManager, mediaBaseURL string) *Marketplace {
	return &Marketplace{
		store:        store,
		tokens:       tokens,
		mediaBaseURL: strings.TrimSuffix(mediaBaseURL, "/"),
	}
}

// Store отдаёт хранилище для health-check и медиа.
func (m *Marketplace) Store() *repository.MarketplaceStore {
	return m.store
}

func fail(status int, message string) error {
	return apperror.Application(status, message)
}

func notFound(err error, message string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fail(http.StatusNotFound, message)
	}
	return err
}

// containsFold: поиск подстроки без учёта регистра.
func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func matchesAny(query string, fields ...string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	for _, f := range fields {
		if containsFold(f, query) {
			return true
		}
	}
	return false
}

// capitalize приводит тип услуги к виду "Plumbing".
func capitalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// pseudoDistance выдаёт стабильное расстояние для записей, созданных через API.
// Стенд не считает реальные расстояния.
func pseudoDistance(location string) int {
	return int(crc32.ChecksumIEEE([]byte(strings.ToLower(location)))%40) + 1
}

// byDeadline сравнивает сроки; пустой или нераспознанный срок идёт в конец.
func byDeadline(a, b string) bool {
	ta, okA := render.ParseDeadline(a)
	tb, okB := render.ParseDeadline(b)
	switch {
	case !okA && !okB:
		return a < b
	case !okA:
		return false
	case !okB:
		return true
	}
	return ta.Before(tb)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
