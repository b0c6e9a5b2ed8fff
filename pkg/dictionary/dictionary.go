package dictionary

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"slices"

	"github.com/leonid6372/trades-pager/pkg/format"
	"github.com/leonid6372/trades-pager/pkg/log"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const DefaultLanguage = "en"

//go:embed dictionary.json
var rawDictionary []byte

type Dictionary struct {
	dictionary map[string]map[string]string // map[language_code]map[key]value

	digitSeparator   string
	decimalSeparator string
}

func New() (*Dictionary, error) {
	return Parse(rawDictionary)
}

// Parse builds a dictionary from JSON of the form {"lang": {"key": "template"}}.
func Parse(data []byte) (*Dictionary, error) {
	var dictionary map[string]map[string]string
	if err := json.Unmarshal(data, &dictionary); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary: %w", err)
	}

	if _, ok := dictionary[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("dictionary has no %q texts", DefaultLanguage)
	}

	return &Dictionary{
		dictionary:       dictionary,
		digitSeparator:   " ",
		decimalSeparator: ",",
	}, nil
}

func (d *Dictionary) Languages() []string {
	langs := make([]string, 0, len(d.dictionary))

	for lang := range d.dictionary {
		langs = append(langs, lang)
	}

	slices.Sort(langs)

	return langs
}

// Text renders the template stored under key. Unknown languages fall back to the default one,
// numeric values are formatted with the dictionary separators.
func (d *Dictionary) Text(lang, key string, values ...map[string]any) string {
	texts, ok := d.dictionary[lang]
	if !ok {
		texts = d.dictionary[DefaultLanguage]
	}

	text, ok := texts[key]
	if !ok {
		log.Error("Text: value not found", zap.String("lang", lang), zap.String("key", key))
		return ""
	}

	tmpl, err := template.New(key).Parse(text)
	if err != nil {
		return text
	}

	var valuesMap map[string]any
	if len(values) > 0 {
		valuesMap = make(map[string]any, len(values[0]))

		// format numeric types in values
		for key, value := range values[0] {
			switch v := value.(type) {
			case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, decimal.Decimal:
				valuesMap[key] = format.PrettyNumber(v, d.digitSeparator, d.decimalSeparator)
			default:
				valuesMap[key] = value
			}
		}
	}

	byteText := new(bytes.Buffer)
	if err = tmpl.Execute(byteText, valuesMap); err != nil {
		log.Error("Text: failed to execute template", zap.Error(err))
		return text
	}

	return byteText.String()
}
