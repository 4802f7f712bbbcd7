// Package archive inspects zip and tar-family containers member-by-member,
// persisting and pattern-scanning each entry as if it were its own fetched
// URL. Ground: original_source crawler.rs's analyze_zip/analyze_tar_like,
// generalized to Go's archive/zip and archive/tar plus the compression
// readers the original wires per-extension (flate2/bzip2/xz2).
package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ulikunitz/xz"
	"golang.org/x/sync/errgroup"

	"github.com/sigman78/webrecon/internal/assets"
	"github.com/sigman78/webrecon/internal/patterns"
)

// Member is one decoded, scanned archive entry.
type Member struct {
	VirtualURL string // "{parentURL}!{memberName}"
	Findings   []patterns.Finding
}

// Inspect opens the archive at data (already-persisted raw bytes of the
// parent URL), dispatches on ext, persists every file member under store
// via assets.PathFor, and pattern-scans members that look like text. Any
// extension assets.IsArchiveExt doesn't recognize is a silent no-op,
// matching the original's fall-through. Member decoding for tar-family
// archives runs sequentially on the calling goroutine (archive/tar is a
// streaming reader, not safely shareable concurrently) but each member's
// store-and-scan work is offloaded onto an errgroup so slow disk I/O for
// one member never blocks decoding the next.
func Inspect(data []byte, baseURL, ext string, store assets.Storage) ([]Member, error) {
	switch ext {
	case "zip":
		return inspectZip(data, baseURL, store)
	case "tar", "tgz", "gz", "bz2", "xz":
		return inspectTarLike(data, baseURL, ext, store)
	default:
		return nil, nil
	}
}

func inspectZip(data []byte, baseURL string, store assets.Storage) ([]Member, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	var (
		mu      sync.Mutex
		members []Member
	)
	g := new(errgroup.Group)

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		f := f
		rc, err := f.Open()
		if err != nil {
			continue
		}
		body, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			continue
		}

		g.Go(func() error {
			m := processMember(baseURL, f.Name, body, store)
			mu.Lock()
			members = append(members, m)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return members, err
	}
	return members, nil
}

func inspectTarLike(data []byte, baseURL, ext string, store assets.Storage) ([]Member, error) {
	reader, err := decompressReader(bytes.NewReader(data), ext)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", ext, err)
	}

	tr := tar.NewReader(reader)
	var (
		mu      sync.Mutex
		members []Member
	)
	g := new(errgroup.Group)

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return members, fmt.Errorf("tar read: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		body, err := io.ReadAll(tr)
		if err != nil {
			continue
		}
		name := hdr.Name

		g.Go(func() error {
			m := processMember(baseURL, name, body, store)
			mu.Lock()
			members = append(members, m)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return members, err
	}
	return members, nil
}

func decompressReader(r io.Reader, ext string) (io.Reader, error) {
	switch ext {
	case "tar":
		return r, nil
	case "gz", "tgz":
		return gzip.NewReader(r)
	case "bz2":
		return bzip2.NewReader(r), nil
	case "xz":
		return xz.NewReader(r)
	default:
		return r, nil
	}
}

// processMember persists one archive member under its virtual URL
// "{baseURL}!{name}" and scans it for secrets if it looks like text.
func processMember(baseURL, name string, body []byte, store assets.Storage) Member {
	virtURL := baseURL + "!" + name
	ext := memberExt(name)
	path := assets.PathFor(virtURL, ext)

	_ = store.Put(path, body)

	m := Member{VirtualURL: virtURL}
	if patterns.IsProbablyText(body) {
		m.Findings = patterns.Scan(string(body))
	}
	return m
}

func memberExt(name string) string {
	if i := strings.LastIndexByte(name, '.'); i != -1 && i < len(name)-1 {
		return strings.ToLower(name[i+1:])
	}
	return "bin"
}
