package ingestion

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// StdinPath selects standard input in ProviderForPath.
const StdinPath = "-"

// Provider supplies the raw trade lines for one run.
type Provider interface {
	GetTradeData() ([]string, error)
}

// ProviderFunc adapts a plain function to Provider.
type ProviderFunc func() ([]string, error)

func (f ProviderFunc) GetTradeData() ([]string, error) { return f() }

// StreamProvider hands back a pre-supplied sequence of lines untouched.
type StreamProvider struct {
	stream []string
}

func NewStreamProvider(stream []string) *StreamProvider {
	return &StreamProvider{stream: stream}
}

func (p *StreamProvider) GetTradeData() ([]string, error) {
	lines := make([]string, len(p.stream))
	copy(lines, p.stream)
	return lines, nil
}

// ReaderProvider reads newline-separated lines from r. A trailing "\r" is
// stripped from every line; nothing else is filtered.
type ReaderProvider struct {
	r io.Reader
}

func NewReaderProvider(r io.Reader) *ReaderProvider {
	return &ReaderProvider{r: r}
}

func (p *ReaderProvider) GetTradeData() ([]string, error) {
	return readLines(p.r)
}

// readLines has no per-line size limit, so an oversized line reaches the
// validator like any other.
func readLines(r io.Reader) ([]string, error) {
	lines := make([]string, 0)
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(line, "\n")
			lines = append(lines, strings.TrimSuffix(line, "\r"))
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read lines: %w", err)
		}
	}
}

// FileProvider reads lines from a text file.
type FileProvider struct {
	path string
}

func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

func (p *FileProvider) GetTradeData() ([]string, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	lines, err := readLines(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.path, err)
	}
	return lines, nil
}

// ExcelProvider reads trade lines from a spreadsheet: every row of the sheet
// becomes one line, its cells joined with commas. An empty sheet name selects
// the first sheet of the workbook.
type ExcelProvider struct {
	path  string
	sheet string
}

func NewExcelProvider(path, sheet string) *ExcelProvider {
	return &ExcelProvider{path: path, sheet: sheet}
}

func (p *ExcelProvider) GetTradeData() ([]string, error) {
	f, err := excelize.OpenFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := p.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, strings.Join(row, fieldSeparator))
	}
	return lines, nil
}

// ProviderForPath picks a provider from the shape of path:
//   - "-":       standard input
//   - directory: every .txt/.csv file inside it
//   - "*.xlsx":  first sheet of the workbook
//   - other:     plain text file, one trade per line
func ProviderForPath(path string) Provider {
	switch {
	case path == StdinPath:
		return NewReaderProvider(os.Stdin)
	case isDir(path):
		return NewDirectoryProvider(path)
	case strings.EqualFold(filepath.Ext(path), ".xlsx"):
		return NewExcelProvider(path, "")
	default:
		return NewFileProvider(path)
	}
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
