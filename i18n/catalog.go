// Package i18n resolves dotted translation keys against per-language catalogs.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

const DefaultLanguage = "en"

// Catalog holds one nested translation tree per language. It is read-only
// after construction and safe for concurrent use.
type Catalog struct {
	fallback string
	trees    map[string]map[string]any
	codes    []string
	matcher  language.Matcher
	logger   *zap.Logger
}

// Load builds a Catalog from the embedded locale files.
func Load(fallback string, logger *zap.Logger) (*Catalog, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	trees := make(map[string]map[string]any, len(entries))
	for _, e := range entries {
		data, err := localeFS.ReadFile(path.Join("locales", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		tree := map[string]any{}
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		trees[strings.TrimSuffix(e.Name(), path.Ext(e.Name()))] = tree
	}
	return New(trees, fallback, logger)
}

// New builds a Catalog from already-parsed trees. The fallback language must
// be one of them.
func New(trees map[string]map[string]any, fallback string, logger *zap.Logger) (*Catalog, error) {
	if _, ok := trees[fallback]; !ok {
		return nil, fmt.Errorf("fallback language %q has no catalog", fallback)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// fallback first so the matcher prefers it when nothing matches
	codes := []string{fallback}
	for code := range trees {
		if code != fallback {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes[1:])

	tags := make([]language.Tag, 0, len(codes))
	for _, code := range codes {
		tag, err := language.Parse(code)
		if err != nil {
			return nil, fmt.Errorf("language %q: %w", code, err)
		}
		tags = append(tags, tag)
	}

	return &Catalog{
		fallback: fallback,
		trees:    trees,
		codes:    codes,
		matcher:  language.NewMatcher(tags),
		logger:   logger,
	}, nil
}

// Languages returns the supported language codes, fallback first.
func (c *Catalog) Languages() []string {
	return append([]string(nil), c.codes...)
}

func (c *Catalog) Supported(lang string) bool {
	_, ok := c.trees[lang]
	return ok
}

// Fallback is the language used when a key or language is missing.
func (c *Catalog) Fallback() string {
	return c.fallback
}

// Lookup resolves key in lang, then in the fallback language, and finally
// returns the key itself. Each miss is logged at warn. Every {{name}} placeholder is replaced by vars[name].
func (c *Catalog) Lookup(lang, key string, vars map[string]any) string {
	text, ok := resolve(c.trees[lang], key)
	if !ok && lang != c.fallback {
		c.logger.Warn("translation missing, using fallback language",
			zap.String("key", key),
			zap.String("language", lang),
			zap.String("fallback", c.fallback),
		)
		text, ok = resolve(c.trees[c.fallback], key)
	}
	if !ok {
		c.logger.Warn("translation key not found",
			zap.String("key", key),
			zap.String("language", lang),
		)
		return key
	}
	return substitute(text, vars)
}

// Direction is "rtl" for Arabic and "ltr" for everything else.
func (c *Catalog) Direction(lang string) string {
	if lang == "ar" {
		return "rtl"
	}
	return "ltr"
}

// Negotiate picks the best supported language for an Accept-Language header.
func (c *Catalog) Negotiate(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.fallback
	}
	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No {
		return c.fallback
	}
	return c.codes[idx]
}

// Bundle flattens the fallback catalog overlaid with lang into dotted keys,
// so a client sees a translation for every key the server knows.
func (c *Catalog) Bundle(lang string) map[string]string {
	out := map[string]string{}
	flatten("", c.trees[c.fallback], out)
	if lang != c.fallback {
		flatten("", c.trees[lang], out)
	}
	return out
}

func resolve(tree map[string]any, key string) (string, bool) {
	if tree == nil {
		return "", false
	}
	var node any = tree
	for _, part := range strings.Split(key, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return "", false
		}
		if node, ok = m[part]; !ok {
			return "", false
		}
	}
	s, ok := node.(string)
	return s, ok
}

func substitute(text string, vars map[string]any) string {
	for name, v := range vars {
		text = strings.ReplaceAll(text, "{{"+name+"}}", fmt.Sprint(v))
	}
	return text
}

func flatten(prefix string, tree map[string]any, out map[string]string) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case string:
			out[key] = val
		}
	}
}
