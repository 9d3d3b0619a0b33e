package service_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/user/reelog/internal/service"
)

func newFakeTMDB(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)

		switch {
		case r.URL.Path == "/search/movie" || r.URL.Path == "/discover/movie":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"page": 1,
				"results": []map[string]interface{}{
					{
						"id":           603,
						"title":        "The Matrix",
						"poster_path":  "/matrix.jpg",
						"release_date": "1999-03-31",
						"vote_average": 8.2,
						"overview":     "A computer hacker...",
					},
				},
				"total_pages":   1,
				"total_results": 1,
			})
		case r.URL.Path == "/movie/603":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"id":           603,
				"title":        "The Matrix",
				"poster_path":  "/matrix.jpg",
				"release_date": "1999-03-31",
				"vote_average": 8.2,
				"overview":     "A computer hacker...",
				"runtime":      136,
				"genres":       []map[string]interface{}{{"name": "Action"}, {"name": "Sci-Fi"}},
			})
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestSearchMoviesMapsAndCaches(t *testing.T) {
	var hits int32
	srv := newFakeTMDB(t, &hits)
	defer srv.Close()

	svc := service.NewTMDBService("test-token")
	svc.BaseURL = srv.URL

	page, err := svc.SearchMovies("matrix", 1)
	if err != nil {
		t.Fatalf("搜索失败: %v", err)
	}
	if len(page.Results) != 1 {
		t.Fatalf("期望 1 条结果，实际 %d", len(page.Results))
	}

	m := page.Results[0]
	if m.TMDBID != 603 || m.Title != "The Matrix" {
		t.Fatalf("结果映射不符: %+v", m)
	}
	if m.Poster != "https://image.tmdb.org/t/p/w500/matrix.jpg" {
		t.Fatalf("海报地址不符: %s", m.Poster)
	}

	// 第二次命中缓存，不再发请求
	if _, err := svc.SearchMovies("matrix", 1); err != nil {
		t.Fatalf("缓存读取失败: %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("期望 1 次上游请求，实际 %d", got)
	}
}

func TestDiscoverMoviesRejectsUnknownSortKey(t *testing.T) {
	svc := service.NewTMDBService("test-token")

	_, err := svc.DiscoverMovies(service.DiscoverParams{SortBy: "title.asc"})
	if err == nil {
		t.Fatal("非法排序方式应报错")
	}
}

func TestDiscoverMoviesAcceptsAllSortKeys(t *testing.T) {
	var hits int32
	srv := newFakeTMDB(t, &hits)
	defer srv.Close()

	svc := service.NewTMDBService("test-token")
	svc.BaseURL = srv.URL

	for _, sortBy := range []string{
		"popularity.desc", "release_date.desc", "vote_average.desc", "revenue.desc",
	} {
		if _, err := svc.DiscoverMovies(service.DiscoverParams{SortBy: sortBy}); err != nil {
			t.Fatalf("排序方式 %s 不应报错: %v", sortBy, err)
		}
	}
}

func TestFetchMovieDetail(t *testing.T) {
	var hits int32
	srv := newFakeTMDB(t, &hits)
	defer srv.Close()

	svc := service.NewTMDBService("test-token")
	svc.BaseURL = srv.URL

	movie, err := svc.FetchMovieDetail(603)
	if err != nil {
		t.Fatalf("拉取详情失败: %v", err)
	}
	if movie.TMDBID != 603 || movie.Runtime != 136 {
		t.Fatalf("详情映射不符: %+v", movie)
	}
	if movie.Genres != "Action/Sci-Fi" {
		t.Fatalf("类型拼接不符: %s", movie.Genres)
	}
	if movie.ID != 0 {
		t.Fatal("详情不应携带本地 ID（尚未入库）")
	}
}
