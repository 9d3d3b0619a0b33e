package service

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/user/reelog/internal/model"
	"github.com/user/reelog/internal/utils"
	"golang.org/x/sync/singleflight"
)

const (
	tmdbBaseURL  = "https://api.themoviedb.org/3"
	tmdbImageURL = "https://image.tmdb.org/t/p/w500"
)

// TMDBService 电影目录客户端（搜索/发现/详情），响应走 LRU 缓存
type TMDBService struct {
	client  *utils.HTTPClient
	cache   *utils.SearchCache[*model.MoviePage]
	group   singleflight.Group
	BaseURL string // 测试时可指向 httptest 服务
}

// NewTMDBService 创建 TMDB 客户端
func NewTMDBService(token string) *TMDBService {
	return &TMDBService{
		client:  utils.NewHTTPClient(token),
		cache:   utils.NewSearchCache[*model.MoviePage](1000, 10*time.Minute),
		BaseURL: tmdbBaseURL,
	}
}

type tmdbMovie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	Overview    string  `json:"overview"`
	Runtime     int     `json:"runtime"`
	Genres      []struct {
		Name string `json:"name"`
	} `json:"genres"`
}

type tmdbPageResponse struct {
	Page         int         `json:"page"`
	Results      []tmdbMovie `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

// SearchMovies 关键词搜索
func (s *TMDBService) SearchMovies(keyword string, page int) (*model.MoviePage, error) {
	if page < 1 {
		page = 1
	}
	endpoint := fmt.Sprintf("%s/search/movie?query=%s&page=%d&include_adult=false",
		s.BaseURL, url.QueryEscape(keyword), page)
	return s.fetchPage("search:"+keyword+":"+fmt.Sprint(page), endpoint)
}

// DiscoverParams 发现页筛选条件
type DiscoverParams struct {
	Page       int
	SortBy     string // 固定集合，见 model.DiscoverSortKeys
	WithGenres string
	Year       string
	MinRating  float64
}

// DiscoverMovies 条件发现
func (s *TMDBService) DiscoverMovies(p DiscoverParams) (*model.MoviePage, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.SortBy == "" {
		p.SortBy = "popularity.desc"
	}
	if !model.DiscoverSortKeys[p.SortBy] {
		return nil, fmt.Errorf("不支持的排序方式: %s", p.SortBy)
	}

	endpoint := fmt.Sprintf("%s/discover/movie?page=%d&sort_by=%s&include_adult=false",
		s.BaseURL, p.Page, url.QueryEscape(p.SortBy))
	if p.WithGenres != "" {
		endpoint += "&with_genres=" + url.QueryEscape(p.WithGenres)
	}
	if p.Year != "" {
		endpoint += "&primary_release_year=" + url.QueryEscape(p.Year)
	}
	if p.MinRating > 0 {
		endpoint += fmt.Sprintf("&vote_average.gte=%g", p.MinRating)
	}

	cacheKey := fmt.Sprintf("discover:%d:%s:%s:%s:%g", p.Page, p.SortBy, p.WithGenres, p.Year, p.MinRating)
	return s.fetchPage(cacheKey, endpoint)
}

// fetchPage 拉取并缓存一页结果，singleflight 合并并发同键请求
func (s *TMDBService) fetchPage(cacheKey, endpoint string) (*model.MoviePage, error) {
	if page, ok := s.cache.Get(cacheKey); ok {
		return page, nil
	}

	val, err, _ := s.group.Do(cacheKey, func() (interface{}, error) {
		var resp tmdbPageResponse
		if err := s.client.GetJSON(endpoint, &resp); err != nil {
			return nil, err
		}

		page := &model.MoviePage{
			Page:         resp.Page,
			TotalPages:   resp.TotalPages,
			TotalResults: resp.TotalResults,
			Results:      make([]model.MovieSummary, 0, len(resp.Results)),
		}
		for _, m := range resp.Results {
			page.Results = append(page.Results, model.MovieSummary{
				TMDBID:      m.ID,
				Title:       m.Title,
				Poster:      posterURL(m.PosterPath),
				ReleaseDate: m.ReleaseDate,
				Rating:      m.VoteAverage,
				Summary:     m.Overview,
			})
		}

		s.cache.Set(cacheKey, page)
		return page, nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*model.MoviePage), nil
}

// FetchMovieDetail 拉取完整详情，转换为本地电影模型（未入库）
func (s *TMDBService) FetchMovieDetail(tmdbID int) (*model.Movie, error) {
	endpoint := fmt.Sprintf("%s/movie/%d", s.BaseURL, tmdbID)

	var m tmdbMovie
	if err := s.client.GetJSON(endpoint, &m); err != nil {
		return nil, err
	}

	var genres []string
	for _, g := range m.Genres {
		genres = append(genres, g.Name)
	}

	return &model.Movie{
		TMDBID:      m.ID,
		Title:       m.Title,
		Poster:      posterURL(m.PosterPath),
		ReleaseDate: m.ReleaseDate,
		Runtime:     m.Runtime,
		Genres:      strings.Join(genres, "/"),
		Rating:      m.VoteAverage,
		Summary:     m.Overview,
	}, nil
}

func posterURL(path string) string {
	if path == "" {
		return ""
	}
	return tmdbImageURL + path
}
