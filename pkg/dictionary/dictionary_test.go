package dictionary

import (
	"html/template"
	"testing"

	"github.com/shopspring/decimal"
)

func TestEmbeddedDictionary(t *testing.T) {
	d, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	langs := d.Languages()
	if len(langs) != 2 || langs[0] != "en" || langs[1] != "ru" {
		t.Errorf("expected [en ru], got %v", langs)
	}

	en := d.dictionary["en"]
	for lang, texts := range d.dictionary {
		for key := range en {
			if _, ok := texts[key]; !ok {
				t.Errorf("%s: missing key %q", lang, key)
			}
		}
	}
}

func TestText(t *testing.T) {
	d, err := Parse([]byte(`{
		"en": {"page": "Page {{.Page}} of {{.Total}}", "pnl": "PnL {{.PnL}}", "raw": "{{.Body}}", "broken": "{{.Page"},
		"ru": {"page": "Страница {{.Page}} из {{.Total}}"}
	}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	tests := []struct {
		name   string
		lang   string
		key    string
		values map[string]any
		want   string
	}{
		{name: "grouped numbers", lang: "en", key: "page", values: map[string]any{"Page": 2, "Total": int64(12000)}, want: "Page 2 of 12 000"},
		{name: "translated", lang: "ru", key: "page", values: map[string]any{"Page": 1, "Total": 3}, want: "Страница 1 из 3"},
		{name: "unknown language falls back", lang: "de", key: "page", values: map[string]any{"Page": 1, "Total": 3}, want: "Page 1 of 3"},
		{name: "decimal", lang: "en", key: "pnl", values: map[string]any{"PnL": decimal.RequireFromString("-1520.5")}, want: "PnL -1 520,5"},
		{name: "trusted html", lang: "en", key: "raw", values: map[string]any{"Body": template.HTML("<b>x</b>")}, want: "<b>x</b>"},
		{name: "escaped text", lang: "en", key: "raw", values: map[string]any{"Body": "<b>x</b>"}, want: "&lt;b&gt;x&lt;/b&gt;"},
		{name: "broken template", lang: "en", key: "broken", want: "{{.Page"},
		{name: "missing key", lang: "ru", key: "pnl", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Text(tt.lang, tt.key, tt.values); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseRequiresDefaultLanguage(t *testing.T) {
	if _, err := Parse([]byte(`{"ru": {}}`)); err == nil {
		t.Error("expected error without default language")
	}
	if _, err := Parse([]byte(`not json`)); err == nil {
		t.Error("expected error for invalid json")
	}
}
