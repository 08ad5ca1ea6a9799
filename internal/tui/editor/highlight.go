package editor

import (
	"sync"

	"github.com/xonecas/vate/internal/highlight"
)

// Highlighted lines are cached across editors; documents are re-rendered on
// every keystroke but few of their lines change.
var (
	hlCache   = make(map[string]string)
	hlCacheMu sync.RWMutex
)

func cachedHighlight(text, language, theme, bgHex string) string {
	if text == "" {
		return ""
	}
	key := language + ":" + theme + ":" + bgHex + ":" + text
	hlCacheMu.RLock()
	v, ok := hlCache[key]
	hlCacheMu.RUnlock()
	if ok {
		return v
	}

	result := highlight.Highlight(text, language, theme, bgHex)

	hlCacheMu.Lock()
	if len(hlCache) > 4000 {
		hlCache = make(map[string]string)
	}
	hlCache[key] = result
	hlCacheMu.Unlock()
	return result
}
