package hateoas

import (
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 5
	MaxPageSize     = 100

	// MaxPage keeps Page*Size and Page+1 inside int.
	MaxPage = math.MaxInt/MaxPageSize - 1
)

// Pageable is a zero-based page request with an optional sort.
type Pageable struct {
	Page   int
	Size   int
	Column string // whitelisted SQL column, empty when unsorted
	Desc   bool
}

// PageableFromRequest reads page, size and sort from the query string.
// Invalid values fall back to defaults; sort fields not present in sortable
// (field name -> column) are ignored.
func PageableFromRequest(r *http.Request, sortable map[string]string) Pageable {
	q := r.URL.Query()
	p := Pageable{Page: 0, Size: DefaultPageSize}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n >= 0 {
		p.Page = min(n, MaxPage)
	}
	if n, err := strconv.Atoi(q.Get("size")); err == nil && n > 0 {
		p.Size = min(n, MaxPageSize)
	}
	if s := q.Get("sort"); s != "" {
		field, dir, _ := strings.Cut(s, ",")
		if col, ok := sortable[strings.TrimSpace(field)]; ok {
			p.Column = col
			p.Desc = strings.EqualFold(strings.TrimSpace(dir), "desc")
		}
	}
	return p
}

func (p Pageable) Offset() int { return p.Page * p.Size }

// OrderBy returns an ORDER BY expression, using fallback when unsorted.
func (p Pageable) OrderBy(fallback string) string {
	col := p.Column
	if col == "" {
		col = fallback
	}
	if p.Desc {
		return col + " DESC"
	}
	return col + " ASC"
}

type PageMetadata struct {
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
}

type PagedModel struct {
	Embedded map[string]any `json:"_embedded,omitempty"`
	Links    Links          `json:"_links"`
	Page     PageMetadata   `json:"page"`
}

// NewPagedModel wraps items under _embedded.<rel>List with navigation links
// that keep the request's other query parameters.
func NewPagedModel[T any](r *http.Request, rel string, items []T, p Pageable, total int64) PagedModel {
	totalPages := 0
	if p.Size > 0 {
		totalPages = int((total + int64(p.Size) - 1) / int64(p.Size))
	}
	m := PagedModel{
		Links: Links{},
		Page:  PageMetadata{Size: p.Size, TotalElements: total, TotalPages: totalPages, Number: p.Page},
	}
	if len(items) > 0 {
		m.Embedded = map[string]any{rel + "List": items}
	}

	pageURL := func(n int) string {
		q := r.URL.Query()
		q.Set("page", strconv.Itoa(n))
		q.Set("size", strconv.Itoa(p.Size))
		u := url.URL{Path: r.URL.Path, RawQuery: q.Encode()}
		return BaseURL(r) + u.String()
	}
	m.Links["self"] = Link{Href: pageURL(p.Page)}
	if totalPages > 0 {
		m.Links["first"] = Link{Href: pageURL(0)}
		m.Links["last"] = Link{Href: pageURL(totalPages - 1)}
	}
	if p.Page > 0 {
		m.Links["prev"] = Link{Href: pageURL(p.Page - 1)}
	}
	if p.Page < totalPages-1 {
		m.Links["next"] = Link{Href: pageURL(p.Page + 1)}
	}
	return m
}
