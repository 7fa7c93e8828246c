package nodes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"github.com/shaiso/Nodeflow/internal/domain"
)

// FormatData — данные, доступные в шаблоне сообщения log-узла:
//
//	{{ .Node }}  — id узла
//	{{ .Port }}  — порт
//	{{ .Label }} — подпись узла
//	{{ .Value }} — значение (в шаблоне печатается каноническим текстом)
type FormatData struct {
	Node  string
	Port  string
	Label string
	Value domain.Value
}

// formatFuncs — дополнительные функции для шаблонов.
var formatFuncs = template.FuncMap{
	// json — сериализует значение в JSON строку
	"json": func(v any) string {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("error: %v", err)
		}
		return string(b)
	},

	// default — возвращает значение по умолчанию, если второй аргумент пустой
	"default": func(def string, val any) any {
		if val == nil {
			return def
		}
		if s, ok := val.(string); ok && s == "" {
			return def
		}
		return val
	},

	"lower": strings.ToLower,
	"upper": strings.ToUpper,
	"trim":  strings.TrimSpace,
}

// templates — кэш разобранных шаблонов: format → *template.Template.
var templates sync.Map

// RenderFormat рендерит шаблон сообщения log-узла.
// Строка без "{{" возвращается как есть.
func RenderFormat(format string, data FormatData) (string, error) {
	if !strings.Contains(format, "{{") {
		return format, nil
	}

	t, err := parseFormat(format)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	return buf.String(), nil
}

func parseFormat(format string) (*template.Template, error) {
	if t, ok := templates.Load(format); ok {
		return t.(*template.Template), nil
	}

	t, err := template.New("log").Funcs(formatFuncs).Option("missingkey=error").Parse(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}

	templates.Store(format, t)
	return t, nil
}
