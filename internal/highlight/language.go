package highlight

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// DetectLanguage returns the Chroma lexer alias for a file name, or "text".
func DetectLanguage(path string) string {
	base := filepath.Base(path)
	lex := lexers.Match(base)
	if lex == nil {
		lex = lexers.Match(strings.ToLower(base))
	}
	return languageOf(lex)
}

// Detect is DetectLanguage with a fallback to guessing from content, for
// files without a telling name such as scripts with a shebang line.
func Detect(path, content string) string {
	if lang := DetectLanguage(path); lang != "text" {
		return lang
	}
	if content == "" {
		return "text"
	}
	return languageOf(lexers.Analyse(content))
}

func languageOf(lex chroma.Lexer) string {
	if lex == nil {
		return "text"
	}
	cfg := lex.Config()
	if len(cfg.Aliases) > 0 {
		return cfg.Aliases[0]
	}
	return strings.ToLower(cfg.Name)
}
