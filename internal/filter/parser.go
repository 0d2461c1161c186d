package filter

import (
	"encoding/json"
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/dafoggo/klinh-admin/internal/logging"
	"github.com/dafoggo/klinh-admin/internal/models"
)

// Parser reads and writes the serialized filter state of one table. Entries
// are validated against the set of filterable column ids given at construction.
type Parser struct {
	columns  map[string]struct{}
	validate *validator.Validate
	trans    ut.Translator
	log      logging.Logger
}

// NewParser creates a parser accepting entries for the given column ids
func NewParser(columnIDs []string, log logging.Logger) *Parser {
	if log == nil {
		log = logging.NewNop()
	}

	p := &Parser{
		columns: make(map[string]struct{}, len(columnIDs)),
		log:     log,
	}
	for _, id := range columnIDs {
		p.columns[id] = struct{}{}
	}

	p.validate = validator.New()
	p.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = p.validate.RegisterValidation("knowncolumn", func(fl validator.FieldLevel) bool {
		_, ok := p.columns[fl.Field().String()]
		return ok
	})
	_ = p.validate.RegisterValidation("variant", func(fl validator.FieldLevel) bool {
		return models.Variant(fl.Field().String()).IsValid()
	})
	p.validate.RegisterStructValidation(func(sl validator.StructLevel) {
		entry := sl.Current().Interface().(models.FilterEntry)
		if entry.Operator != "" && !IsValidOperator(entry.Variant, entry.Operator) {
			sl.ReportError(entry.Operator, "operator", "Operator", "variantoperator", string(entry.Variant))
		}
	}, models.FilterEntry{})

	uni := ut.New(en.New(), en.New())
	p.trans, _ = uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(p.validate, p.trans)
	p.registerMessage("knowncolumn", "{0} must reference a filterable column")
	p.registerMessage("variant", "{0} must be a known column variant")
	p.registerMessage("variantoperator", "{0} is not valid for this variant")

	return p
}

func (p *Parser) registerMessage(tag, text string) {
	_ = p.validate.RegisterTranslation(tag, p.trans, func(ut ut.Translator) error {
		return ut.Add(tag, text, true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T(tag, fe.Field())
		return t
	})
}

// Validate checks a single entry against the parser's schema
func (p *Parser) Validate(entry models.FilterEntry) error {
	if err := p.validate.Struct(entry); err != nil {
		return translateValidatorError(err, p.trans)
	}
	return nil
}

// Parse decodes a raw parameter value. It never fails: anything that cannot
// be decoded yields an empty list and invalid entries are dropped.
func (p *Parser) Parse(raw string) []models.FilterEntry {
	entries := []models.FilterEntry{}
	if strings.TrimSpace(raw) == "" {
		return entries
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		p.log.Debug("discarding malformed filter state", "error", err)
		return entries
	}

	for i, item := range items {
		var entry models.FilterEntry
		if err := json.Unmarshal(item, &entry); err != nil {
			p.log.Debug("dropping undecodable filter entry", "index", i, "error", err)
			continue
		}
		if err := p.Validate(entry); err != nil {
			p.log.Debug("dropping invalid filter entry", "index", i, "id", entry.ID, "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// Serialize encodes the entries for the query parameter. remove is true when
// the list is empty and the parameter should be removed instead.
func (p *Parser) Serialize(entries []models.FilterEntry) (raw string, remove bool) {
	if len(entries) == 0 {
		return "", true
	}
	data, err := json.Marshal(entries)
	if err != nil {
		// FilterEntry only holds strings, so this cannot happen in practice.
		p.log.Error("failed to encode filter state", "error", err)
		return "", true
	}
	return string(data), false
}

// translateValidatorError flattens validator errors into one readable error
func translateValidatorError(err error, trans ut.Translator) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	errs := verrs.Translate(trans)
	vals := make([]string, 0, len(errs))
	for _, value := range errs {
		vals = append(vals, value)
	}
	sort.Strings(vals)
	return errors.New(strings.Join(vals, " "))
}
