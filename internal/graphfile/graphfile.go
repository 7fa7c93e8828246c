package graphfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shaiso/Nodeflow/internal/domain"
)

// Ошибки загрузки графа.
var (
	// ErrUnknownFormat — формат файла не определён по расширению.
	ErrUnknownFormat = errors.New("unknown graph file format")

	// ErrDecode — документ не удалось разобрать.
	ErrDecode = errors.New("graph decode failed")
)

// Format — формат документа с графом.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// FormatFromPath определяет формат по расширению файла.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// ParseFormat парсит имя формата ("json", "yaml", "yml", "hcl").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "hcl":
		return FormatHCL, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Load читает граф из файла. Формат выбирается по расширению.
func Load(path string) (domain.Graph, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return domain.Graph{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Graph{}, fmt.Errorf("read graph file: %w", err)
	}

	return parse(format, data, filepath.Base(path))
}

// Parse разбирает граф из документа в памяти.
func Parse(format Format, data []byte) (domain.Graph, error) {
	return parse(format, data, "graph."+string(format))
}

func parse(format Format, data []byte, filename string) (domain.Graph, error) {
	var (
		g   domain.Graph
		err error
	)

	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &g)
	case FormatYAML:
		g, err = parseYAML(data)
	case FormatHCL:
		g, err = parseHCL(data, filename)
	default:
		return domain.Graph{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if err != nil {
		return domain.Graph{}, fmt.Errorf("%w: %s: %w", ErrDecode, filename, err)
	}
	return g, nil
}
