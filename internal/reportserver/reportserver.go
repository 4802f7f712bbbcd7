// Package reportserver serves a completed scan workspace over plain HTTP
// so the operator can browse sensitive_info.txt, assets/, and screenshots/
// from a browser. Ground: original_source server.rs's raw static file
// server — same "../"-collapsing path containment and extension→MIME
// table, rebuilt on net/http since no example repo in the corpus carries
// a raw-socket HTTP library and net/http is the idiomatic Go substitute
// for a single-purpose static server.
package reportserver

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

var extMIME = map[string]string{
	".html": "text/html",
	".csv":  "text/csv",
	".js":   "application/javascript",
	".css":  "text/css",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
}

// Serve listens on port and serves dir (and, for paths beginning with
// "../", dir's parent) until ctx is canceled.
func Serve(ctx context.Context, dir string, port int) error {
	parent := filepath.Dir(dir)

	mux := http.NewServeMux()
	mux.HandleFunc("/", handler(dir, parent))

	srv := &http.Server{
		Addr:    "127.0.0.1:" + strconv.Itoa(port),
		Handler: mux,
	}

	log := zerolog.Ctx(ctx)
	log.Info().Str("addr", srv.Addr).Str("dir", dir).Msg("report server listening")

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		return srv.Close()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func handler(dir, parent string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqPath := strings.TrimPrefix(r.URL.Path, "/")
		if reqPath == "" || strings.HasSuffix(reqPath, "/") {
			reqPath += "index.html"
		}
		reqPath = collapseDotDot(reqPath)

		var fsPath string
		if strings.HasPrefix(reqPath, "../") {
			rest := reqPath
			for strings.HasPrefix(rest, "../") {
				rest = rest[3:]
			}
			fsPath = filepath.Join(parent, rest)
		} else {
			fsPath = filepath.Join(dir, reqPath)
		}

		data, err := os.ReadFile(fsPath)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		if mime, ok := extMIME[strings.ToLower(filepath.Ext(reqPath))]; ok {
			w.Header().Set("Content-Type", mime)
		}
		_, _ = w.Write(data)
	}
}

// collapseDotDot repeatedly removes "segment/../" pairs, mirroring the
// original's manual find-and-splice loop rather than relying on
// filepath.Clean so that a path which starts with "../" is preserved for
// the parent-dir escape hatch above instead of being normalized away.
func collapseDotDot(p string) string {
	for {
		pos := strings.Index(p, "/../")
		if pos < 0 {
			return p
		}
		prev := strings.LastIndexByte(p[:pos], '/')
		if prev < 0 {
			p = p[pos+4:]
		} else {
			p = p[:prev] + p[pos+4:]
		}
	}
}

