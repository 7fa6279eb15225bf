package payment

import (
	"strings"

	"golang.org/x/text/language"
)

var langMatcher = language.NewMatcher([]language.Tag{language.Korean, language.English})

// Lang picks ko or en. An explicit override (?lang=en) wins over Accept-Language.
func Lang(acceptLanguage, override string) string {
	switch strings.ToLower(strings.TrimSpace(override)) {
	case LangKO:
		return LangKO
	case LangEN:
		return LangEN
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return LangKO
	}
	_, idx, conf := langMatcher.Match(tags...)
	if conf == language.No || idx == 0 {
		return LangKO
	}
	return LangEN
}
