package ingestion

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/guttosm/fxtrades/internal/logger"
)

// ErrNoInputFiles is returned when a directory holds no trade files.
var ErrNoInputFiles = errors.New("no trade files found")

// inputExts lists the file extensions picked up from a directory.
var inputExts = map[string]struct{}{".txt": {}, ".csv": {}}

// DirectoryProvider reads every .txt and .csv file in dir, in lexical order,
// and returns their lines one file after another. Subdirectories and other
// files are ignored.
type DirectoryProvider struct {
	dir string
}

func NewDirectoryProvider(dir string) *DirectoryProvider {
	return &DirectoryProvider{dir: dir}
}

func (p *DirectoryProvider) GetTradeData() ([]string, error) {
	files, err := p.files()
	if err != nil {
		return nil, err
	}

	logger.L().Info().Int("files", len(files)).Str("dir", p.dir).Msg("reading trade files")

	lines := make([]string, 0)
	for i, f := range files {
		start := time.Now()
		got, err := NewFileProvider(f).GetTradeData()
		if err != nil {
			return nil, err
		}
		lines = append(lines, got...)
		logger.L().Debug().
			Int("idx", i+1).
			Int("total", len(files)).
			Str("file", filepath.Base(f)).
			Int("lines", len(got)).
			Dur("elapsed", time.Since(start)).
			Msg("file read")
	}
	return lines, nil
}

func (p *DirectoryProvider) files() ([]string, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := inputExts[strings.ToLower(filepath.Ext(e.Name()))]; ok {
			files = append(files, filepath.Join(p.dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", p.dir, ErrNoInputFiles)
	}
	sort.Strings(files)
	return files, nil
}
