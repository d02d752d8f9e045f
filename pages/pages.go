// Package pages serves the application's embedded documents. Access
// control lives one layer up, the page handler itself treats every
// route the same.
package pages

import (
	"embed"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/julienschmidt/httprouter"
)

//go:embed assets/*.html
var assets embed.FS

var routes = map[string]string{
	"/login":   "assets/login.html",
	"/home":    "assets/home.html",
	"/history": "assets/history.html",
}

func AsHandler() (http.Handler, error) {
	router := httprouter.New()
	for route, asset := range routes {
		content, err := assets.ReadFile(asset)
		if err != nil {
			return nil, fmt.Errorf("unable to load embedded page %v, cause %w", asset, err)
		}
		router.HandlerFunc("GET", route, servePage(content))
	}
	return router, nil
}

func servePage(content []byte) http.HandlerFunc {
	etag := fmt.Sprintf(`"%x"`, xxhash.Sum64(content))
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Add("Content-Type", "text/html; charset=utf-8")
		w.Header().Add("Content-Length", strconv.Itoa(len(content)))
		w.WriteHeader(http.StatusOK)
		w.Write(content)
	}
}
