package payment

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	LangKO = "ko"
	LangEN = "en"
)

type localized struct {
	KO string `yaml:"ko"`
	EN string `yaml:"en"`
}

func (l localized) in(lang string) string {
	if lang == LangEN {
		return l.EN
	}
	return l.KO
}

type errorTable struct {
	Fallback localized            `yaml:"fallback"`
	Codes    map[string]localized `yaml:"codes"`
}

//go:embed errorcodes.yaml
var errorCodesYAML []byte

var (
	tableOnce sync.Once
	table     errorTable
)

func loadTable() errorTable {
	tableOnce.Do(func() {
		if err := yaml.Unmarshal(errorCodesYAML, &table); err != nil {
			panic(fmt.Sprintf("payment: parse errorcodes.yaml: %v", err))
		}
	})
	return table
}

// ErrorMessage maps a gateway error code to a customer-facing message in ko or en.
// Unknown codes get the generic fallback; unknown languages get Korean.
func ErrorMessage(code, lang string) string {
	t := loadTable()
	if msg, ok := t.Codes[code]; ok {
		return msg.in(lang)
	}
	return t.Fallback.in(lang)
}

// KnownErrorCode reports whether code has its own entry in the table.
func KnownErrorCode(code string) bool {
	_, ok := loadTable().Codes[code]
	return ok
}

// ErrorCodes lists every mapped code in sorted order.
func ErrorCodes() []string {
	t := loadTable()
	codes := make([]string, 0, len(t.Codes))
	for code := range t.Codes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
