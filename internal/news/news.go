// Package news はブログページに表示するNIL関連ニュースを外部RSSソースから
// 取得する。取得はSSRF防止機能付きのHTTPクライアントで行い、
// タイトルと要約はサニタイズしてから返す。
package news

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
)

// Article は表示用に正規化したニュース記事を表す。
type Article struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Summary     string    `json:"summary,omitempty"`
	Source      string    `json:"source,omitempty"`
	PublishedAt time.Time `json:"publishedAt,omitzero"`
}

// SSRFValidator はSSRF検証のインターフェース。
type SSRFValidator interface {
	ValidateURL(rawURL string) error
	NewSafeClient(timeout time.Duration, maxResponseSize int64) *http.Client
}

// Sanitizer はHTMLサニタイズのインターフェース。
type Sanitizer interface {
	Sanitize(rawHTML string) string
}

// Service はニュースフィードの取得・整形・キャッシュを行う。
type Service struct {
	sources     []string
	ssrfGuard   SSRFValidator
	sanitizer   Sanitizer
	logger      *slog.Logger
	timeout     time.Duration
	maxBodySize int64
	cacheTTL    time.Duration
	now         func() time.Time

	mu       sync.Mutex
	cached   []Article
	cachedAt time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	sources []string,
	ssrfGuard SSRFValidator,
	sanitizer Sanitizer,
	logger *slog.Logger,
	timeout time.Duration,
	maxBodySize int64,
	cacheTTL time.Duration,
) *Service {
	return &Service{
		sources:     sources,
		ssrfGuard:   ssrfGuard,
		sanitizer:   sanitizer,
		logger:      logger,
		timeout:     timeout,
		maxBodySize: maxBodySize,
		cacheTTL:    cacheTTL,
		now:         time.Now,
	}
}

// Latest は公開日時の降順でニュース記事を返す。
// TTL内はキャッシュを返し、ソース単位の取得失敗は警告ログのみで継続する。
// limitが0以下の場合は全件返す。
func (s *Service) Latest(ctx context.Context, limit int) ([]Article, error) {
	s.mu.Lock()
	if s.cached != nil && s.now().Sub(s.cachedAt) < s.cacheTTL {
		articles := s.cached
		s.mu.Unlock()
		return capArticles(articles, limit), nil
	}
	s.mu.Unlock()

	var all []Article
	for _, source := range s.sources {
		articles, err := s.fetchSource(ctx, source)
		if err != nil {
			s.logger.Warn("ニュースソースの取得に失敗しました",
				slog.String("source", source),
				slog.String("error", err.Error()),
			)
			continue
		}
		all = append(all, articles...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].PublishedAt.After(all[j].PublishedAt)
	})

	s.mu.Lock()
	s.cached = all
	s.cachedAt = s.now()
	s.mu.Unlock()

	return capArticles(all, limit), nil
}

// fetchSource は単一のRSSソースを取得してパースする。
func (s *Service) fetchSource(ctx context.Context, source string) ([]Article, error) {
	if err := s.ssrfGuard.ValidateURL(source); err != nil {
		return nil, fmt.Errorf("SSRF検証に失敗: %w", err)
	}

	client := s.ssrfGuard.NewSafeClient(s.timeout, s.maxBodySize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("リクエスト作成に失敗: %w", err)
	}
	req.Header.Set("User-Agent", "Dapup/1.0 News Reader")
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, */*")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエスト失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTPステータス %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("レスポンス読み取り失敗: %w", err)
	}

	parsed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("フィードのパースに失敗: %w", err)
	}

	return s.convertItems(parsed), nil
}

// convertItems はgofeedの記事をArticleに変換し、サニタイズする。
func (s *Service) convertItems(feed *gofeed.Feed) []Article {
	articles := make([]Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || item.Link == "" {
			continue
		}

		article := Article{
			Title:   s.sanitizer.Sanitize(item.Title),
			Link:    item.Link,
			Summary: s.sanitizer.Sanitize(item.Description),
			Source:  feed.Title,
		}
		if item.PublishedParsed != nil {
			article.PublishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			article.PublishedAt = *item.UpdatedParsed
		}

		articles = append(articles, article)
	}
	return articles
}

func capArticles(articles []Article, limit int) []Article {
	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}
	out := make([]Article, len(articles))
	copy(out, articles)
	return out
}
