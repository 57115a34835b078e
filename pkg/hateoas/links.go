// Package hateoas renders hypermedia links and paged collections in the
// HAL-like shape clients of the tasks API expect.
package hateoas

import (
	"net/http"
	"strconv"
)

type Link struct {
	Href string `json:"href"`
}

// Links maps a relation name to its link.
type Links map[string]Link

// BaseURL returns scheme://host for the request, honouring X-Forwarded-Proto.
func BaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p == "http" || p == "https" {
		scheme = p
	}
	return scheme + "://" + r.Host
}

// EntityLinks builds the self, delete and all relations for a resource
// living under collectionPath.
func EntityLinks(r *http.Request, collectionPath string, id int64) Links {
	all := BaseURL(r) + collectionPath
	self := all + "/" + strconv.FormatInt(id, 10)
	return Links{
		"self":   {Href: self},
		"delete": {Href: self},
		"all":    {Href: all},
	}
}
