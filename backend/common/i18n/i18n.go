package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultLang is used when the requested language has no messages.
const DefaultLang = "en"

//go:embed locales/*.json
var embeddedLocales embed.FS

var (
	messages     = make(map[string]map[string]string)
	messagesLock sync.RWMutex
)

func init() {
	if err := loadLocales(embeddedLocales, "locales"); err != nil {
		panic(fmt.Sprintf("load embedded locales: %v", err))
	}
}

// Init merges the locale files found in dir (one <lang>.json per language)
// over the embedded messages.
func Init(dir string) error {
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("locale directory %s: %w", dir, err)
	}
	return loadLocales(os.DirFS(dir), ".")
}

func loadLocales(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := fs.ReadFile(fsys, filepath.ToSlash(filepath.Join(dir, entry.Name())))
		if err != nil {
			return err
		}
		var table map[string]string
		if err := json.Unmarshal(data, &table); err != nil {
			return fmt.Errorf("parse %s: %w", entry.Name(), err)
		}
		lang := strings.TrimSuffix(entry.Name(), ".json")

		messagesLock.Lock()
		if messages[lang] == nil {
			messages[lang] = make(map[string]string)
		}
		for code, msg := range table {
			messages[lang][code] = msg
		}
		messagesLock.Unlock()
	}
	return nil
}

// Translate returns the message for code in lang, falling back to the
// default language and finally to the code itself.
func Translate(code string, lang string, args ...interface{}) string {
	messagesLock.RLock()
	msg, ok := lookup(code, normalizeLang(lang))
	if !ok {
		msg, ok = lookup(code, DefaultLang)
	}
	messagesLock.RUnlock()
	if !ok {
		return code
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

func lookup(code, lang string) (string, bool) {
	table, ok := messages[lang]
	if !ok {
		return "", false
	}
	msg, ok := table[code]
	return msg, ok
}

// normalizeLang reduces "zh-CN" or "en_US" to the primary tag.
func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_;"); i >= 0 {
		lang = lang[:i]
	}
	return lang
}
