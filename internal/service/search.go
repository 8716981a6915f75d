package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/pageza/seasonal-recipes/backend/internal/lunar"
	"github.com/pageza/seasonal-recipes/backend/internal/metrics"
	"github.com/pageza/seasonal-recipes/backend/internal/model"
	"github.com/pageza/seasonal-recipes/backend/internal/store"
)

// Search types
const (
	SearchTypeAuto      = "auto"
	SearchTypeVegetable = "蔬菜"
	SearchTypeDish      = "菜名"
)

// Result sources
const (
	SourceLocal     = "本地数据库"
	SourceAugmented = "本地+AI"
)

// TimeoutMessage replaces the generated text when the AI service is too slow
const TimeoutMessage = "AI服务响应超时，请稍后重试"

const (
	DefaultPageSize        = 6
	DefaultMaxPageSize     = 50
	DefaultGenerateTimeout = 30 * time.Second
)

var (
	ErrEmptyKeyword      = errors.New("请输入搜索关键词")
	ErrInvalidPagination = errors.New("分页参数无效")
	ErrInvalidSearchType = errors.New("搜索类型无效")
)

// SearchRequest is a keyword search. Zero Page and PageSize take defaults.
type SearchRequest struct {
	Keyword  string `json:"keyword"`
	Type     string `json:"type"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// Pagination describes the slice of matches returned
type Pagination struct {
	CurrentPage int  `json:"current_page"`
	PageSize    int  `json:"page_size"`
	TotalCount  int  `json:"total_count"`
	TotalPages  int  `json:"total_pages"`
	HasMore     bool `json:"has_more"`
}

// SearchResult is the search response envelope
type SearchResult struct {
	Keyword    string         `json:"keyword"`
	Type       string         `json:"type"`
	Source     string         `json:"source"`
	Results    []model.Recipe `json:"results"`
	AIResponse string         `json:"api_response,omitempty"`
	Pagination Pagination     `json:"pagination"`
}

// SearchConfig tunes the SearchService
type SearchConfig struct {
	DefaultPageSize int
	MaxPageSize     int
	Timeout         time.Duration
	Vegetables      []string
}

// SearchService searches the store and asks the generator for help when the
// first page comes back under-filled.
type SearchService struct {
	store     *store.Store
	generator Generator
	cfg       SearchConfig
}

// NewSearchService creates a new SearchService instance. generator may be nil.
func NewSearchService(s *store.Store, generator Generator, cfg SearchConfig) *SearchService {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = DefaultPageSize
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = DefaultMaxPageSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultGenerateTimeout
	}
	if cfg.Vegetables == nil {
		cfg.Vegetables = lunar.CommonVegetables()
	}
	return &SearchService{
		store:     s,
		generator: generator,
		cfg:       cfg,
	}
}

// AIEnabled reports whether a generator is configured
func (s *SearchService) AIEnabled() bool {
	return s.generator != nil
}

// Classify decides whether keyword names a vegetable or a dish
func (s *SearchService) Classify(keyword string) string {
	for _, v := range s.cfg.Vegetables {
		if strings.Contains(keyword, v) {
			return SearchTypeVegetable
		}
	}
	return SearchTypeDish
}

// Search runs a keyword search. Local results are always returned; generator
// failures only affect the supplementary text.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	keyword := strings.TrimSpace(req.Keyword)
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}

	page, pageSize := req.Page, req.PageSize
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = s.cfg.DefaultPageSize
	}
	if page < 1 || pageSize < 1 || pageSize > s.cfg.MaxPageSize {
		return nil, ErrInvalidPagination
	}

	searchType := req.Type
	switch searchType {
	case "", SearchTypeAuto:
		searchType = s.Classify(keyword)
	case SearchTypeVegetable, SearchTypeDish:
	default:
		return nil, ErrInvalidSearchType
	}

	matches := s.store.Filter(func(r model.Recipe) bool {
		return r.Matches(keyword)
	})

	total := len(matches)
	totalPages := pageCount(total, pageSize)
	start, end := total, total
	if page <= totalPages {
		start = (page - 1) * pageSize
		end = min(start+pageSize, total)
	}

	result := &SearchResult{
		Keyword: keyword,
		Type:    searchType,
		Source:  SourceLocal,
		Results: append([]model.Recipe{}, matches[start:end]...),
		Pagination: Pagination{
			CurrentPage: page,
			PageSize:    pageSize,
			TotalCount:  total,
			TotalPages:  totalPages,
			HasMore:     page < totalPages,
		},
	}

	if page == 1 && total < pageSize {
		if text := s.augment(ctx, keyword, searchType); text != "" {
			result.AIResponse = text
			if text != TimeoutMessage {
				result.Source = SourceAugmented
			}
		}
	}

	return result, nil
}

func (s *SearchService) augment(ctx context.Context, keyword, searchType string) string {
	if s.generator == nil {
		metrics.RecordFallback(metrics.FallbackDisabled)
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	text, err := s.generator.Generate(ctx, BuildPrompt(keyword, searchType))
	switch {
	case err == nil:
		metrics.RecordFallback(metrics.FallbackOK)
		return text
	case isTimeout(err):
		slog.Warn("AI fallback timed out", "keyword", keyword, "timeout", s.cfg.Timeout)
		metrics.RecordFallback(metrics.FallbackTimeout)
		return TimeoutMessage
	default:
		slog.Error("AI fallback failed", "keyword", keyword, "error", err)
		metrics.RecordFallback(metrics.FallbackError)
		return ""
	}
}

// pageCount divides without the overflow of total+size-1
func pageCount(total, size int) int {
	pages := total / size
	if total%size != 0 {
		pages++
	}
	return pages
}

// BuildPrompt writes the generation prompt for a keyword
func BuildPrompt(keyword, searchType string) string {
	if searchType == SearchTypeVegetable {
		return fmt.Sprintf("请给出%s的6种不同做法，每种做法包括：菜名、所需食材（详细列表）、简要步骤（5步以内）。", keyword)
	}
	return fmt.Sprintf("请给出'%s'这道菜的详细做法，包括：所需食材（详细列表）、详细步骤、烹饪小贴士。", keyword)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
