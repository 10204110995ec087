package handler

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"sync/atomic"

	"paxdash/internal/cache"
	"paxdash/internal/dashboard"
	"paxdash/internal/templates"
)

// Handler holds shared dependencies for all HTTP handlers.
type Handler struct {
	data    atomic.Pointer[loaded]
	cache   cache.Cache
	logger  *slog.Logger
	version string // content hash of static assets, for cache busting
}

// loaded pairs a dataset with the hash that scopes its cache keys.
type loaded struct {
	ds   *dashboard.Dataset
	hash string
}

// New creates a Handler. static is the asset tree served under /static/.
func New(static fs.FS, c cache.Cache, logger *slog.Logger) *Handler {
	v := computeAssetVersion(static)
	logger.Info("asset version computed", "version", v)
	return &Handler{cache: c, logger: logger, version: v}
}

// SetDataset publishes the dataset that requests are served from.
func (h *Handler) SetDataset(ds *dashboard.Dataset) {
	h.data.Store(&loaded{ds: ds, hash: datasetHash(ds)})
}

// dataset returns the current dataset, or nil while loading.
func (h *Handler) dataset() *loaded {
	return h.data.Load()
}

// computeAssetVersion hashes all CSS and JS files in the static tree
// to produce a short version string. Changes to any file produce a new version.
func computeAssetVersion(static fs.FS) string {
	h := md5.New()
	var paths []string
	fs.WalkDir(static, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if ext := path.Ext(p); ext == ".css" || ext == ".js" {
			paths = append(paths, p)
		}
		return nil
	})
	sort.Strings(paths) // deterministic order
	for _, p := range paths {
		f, err := static.Open(p)
		if err != nil {
			continue
		}
		io.Copy(h, f)
		f.Close()
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:8]
}

// datasetHash fingerprints the aggregated table so cached views from a
// different dataset are never served.
func datasetHash(ds *dashboard.Dataset) string {
	h := md5.New()
	var buf [8]byte
	for _, t := range ds.Totals {
		binary.LittleEndian.PutUint64(buf[:], uint64(t.Time.Unix()))
		h.Write(buf[:])
		fmt.Fprintf(h, "%s\x00%s\x00%s\x00%d\n", t.Vehicle, t.Route, t.Day, t.Boarding)
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

// page creates a templates.Page with the asset version pre-filled.
func (h *Handler) page(title string) templates.Page {
	return templates.Page{
		Title:        title,
		AssetVersion: h.version,
	}
}
