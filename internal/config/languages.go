package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// storeLanguages lists the Steam store "l" values tags can be scraped in.
var storeLanguages = []struct {
	tag   language.Tag
	param string
}{
	{language.English, "english"},
	{language.TraditionalChinese, "tchinese"},
	{language.SimplifiedChinese, "schinese"},
	{language.Japanese, "japanese"},
	{language.Korean, "koreana"},
	{language.German, "german"},
	{language.French, "french"},
	{language.Spanish, "spanish"},
	{language.Russian, "russian"},
	{language.BrazilianPortuguese, "brazilian"},
}

var storeLanguageMatcher = func() language.Matcher {
	tags := make([]language.Tag, 0, len(storeLanguages))
	for _, entry := range storeLanguages {
		tags = append(tags, entry.tag)
	}
	return language.NewMatcher(tags)
}()

// ResolveStoreLanguage maps a BCP 47 tag such as "en" or "zh-TW", or a Steam
// store language name such as "tchinese", to the store's "l" parameter.
func ResolveStoreLanguage(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = defaultTagLanguage
	}
	lower := strings.ToLower(value)
	for _, entry := range storeLanguages {
		if lower == entry.param {
			return entry.param, nil
		}
	}

	tag, err := language.Parse(value)
	if err != nil {
		return "", fmt.Errorf("unsupported tag language %q: %w", value, err)
	}
	_, index, confidence := storeLanguageMatcher.Match(tag)
	if confidence == language.No {
		return "", fmt.Errorf("unsupported tag language %q", value)
	}
	return storeLanguages[index].param, nil
}
