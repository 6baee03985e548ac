// Command huffverify is a conformance harness for the huffman package's
// DEFLATE consumer (internal/flate): it feeds a corpus of files through
// compress/flate and back through internal/flate's resumable reader,
// checking the round trip byte-for-byte, the same shape of check
// leijurv/lepton_jpeg_go/cmd/verify/main.go runs against a directory of
// .lep fixtures, generalised from a single fixed directory to a doublestar
// glob pattern and from lepton's own format to DEFLATE.
package main

import (
	"bytes"
	"compress/flate"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/therootcompany/xz"

	internalflate "github.com/huffcodec/core/internal/flate"
)

func main() {
	pattern := flag.String("pattern", "**/*", "doublestar glob (relative to -dir) selecting corpus files")
	dir := flag.String("dir", ".", "root directory to glob against")
	workers := flag.Int("workers", 8, "number of parallel workers")
	verbose := flag.Bool("v", false, "verbose per-file logging")
	level := flag.Int("level", flate.DefaultCompression, "compress/flate level to encode fixtures at before round-tripping")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	files, err := doublestar.FilepathGlob(*dir + "/" + *pattern)
	if err != nil {
		log.Error("glob failed", "pattern", *pattern, "err", err)
		os.Exit(1)
	}

	var regular []string
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil || info.IsDir() {
			continue
		}
		regular = append(regular, f)
	}
	files = regular

	if len(files) == 0 {
		log.Warn("no files matched", "dir", *dir, "pattern", *pattern)
		return
	}

	log.Info("starting verification run", "files", len(files), "workers", *workers, "level", *level)

	var pass, fail int64
	var mu sync.Mutex
	var failures []string

	jobs := make(chan string, len(files))
	var wg sync.WaitGroup

	done := make(chan struct{})
	var tickerWg sync.WaitGroup
	tickerWg.Add(1)
	go func() {
		defer tickerWg.Done()
		t := time.NewTicker(10 * time.Second)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				log.Info("progress", "pass", atomic.LoadInt64(&pass), "fail", atomic.LoadInt64(&fail), "total", len(files))
			case <-done:
				return
			}
		}
	}()

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if err := verifyFile(path, *level); err != nil {
					atomic.AddInt64(&fail, 1)
					mu.Lock()
					failures = append(failures, fmt.Sprintf("%s: %v", path, err))
					mu.Unlock()
					log.Debug("fail", "path", path, "err", err)
					continue
				}
				atomic.AddInt64(&pass, 1)
				log.Debug("pass", "path", path)
			}
		}()
	}

	for _, f := range files {
		jobs <- f
	}
	close(jobs)
	wg.Wait()
	close(done)
	tickerWg.Wait()

	log.Info("done", "pass", pass, "fail", fail, "total", len(files))
	for _, msg := range failures {
		fmt.Fprintln(os.Stderr, msg)
	}
	if fail > 0 {
		os.Exit(1)
	}
}

// verifyFile loads path (transparently decompressing a .xz-compressed
// corpus member so large fixture sets can be checked into the repo
// without bloating it), re-encodes it as a raw DEFLATE stream, decodes
// that stream through internal/flate's huffman-core-backed reader, and
// confirms the SHA-256 of the round trip matches the original.
func verifyFile(path string, level int) error {
	raw, err := loadFixture(path)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	var compressed bytes.Buffer
	w, err := flate.NewWriter(&compressed, level)
	if err != nil {
		return fmt.Errorf("flate.NewWriter: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("encode close: %w", err)
	}

	r := internalflate.NewReader(bytes.NewReader(compressed.Bytes()), int64(compressed.Len()), int64(len(raw)))
	got := make([]byte, len(raw))
	n, err := r.ReadAt(got, 0)
	if err != nil && err != io.EOF {
		return fmt.Errorf("decode: %w", err)
	}
	if n != len(raw) {
		return fmt.Errorf("short decode: got %d bytes, want %d", n, len(raw))
	}

	wantSum := sha256.Sum256(raw)
	gotSum := sha256.Sum256(got)
	if wantSum != gotSum {
		return fmt.Errorf("hash mismatch: want %s got %s", hex.EncodeToString(wantSum[:8]), hex.EncodeToString(gotSum[:8]))
	}
	return nil
}

func loadFixture(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if hasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f, xz.DefaultDictMax)
		if err != nil {
			return nil, fmt.Errorf("xz: %w", err)
		}
		return io.ReadAll(xr)
	}
	return io.ReadAll(f)
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}
