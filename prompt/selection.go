package prompt

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnknownOption is returned when a value is outside its vocabulary.
	ErrUnknownOption = errors.New("unknown option")
	// ErrUnknownField is returned when an update names a field that does not exist.
	ErrUnknownField = errors.New("unknown field")
)

// Field names one member of a Selection.
type Field string

const (
	FieldPurpose      Field = "purpose"
	FieldTopic        Field = "topic"
	FieldFormat       Field = "format"
	FieldTone         Field = "tone"
	FieldLength       Field = "length"
	FieldAudience     Field = "audience"
	FieldInstructions Field = "instructions"
)

// Fields lists every field in form order.
func Fields() []Field {
	return []Field{
		FieldPurpose, FieldTopic, FieldFormat, FieldTone, FieldLength, FieldAudience, FieldInstructions,
	}
}

// ParseField maps a field name onto a Field.
func ParseField(name string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Fields() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// OptionError reports a value that has no phrase table entry.
type OptionError struct {
	Field Field
	Value string
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("%s %q is not a valid option", e.Field, e.Value)
}

func (e *OptionError) Unwrap() error { return ErrUnknownOption }

func optionError(field Field, value string) error {
	return &OptionError{Field: field, Value: value}
}

// Selection is the full set of choices a prompt is assembled from.
type Selection struct {
	Purpose      Purpose  `json:"purpose" yaml:"purpose"`
	Topic        string   `json:"topic" yaml:"topic"`
	Format       Format   `json:"format" yaml:"format"`
	Tone         Tone     `json:"tone" yaml:"tone"`
	Length       Length   `json:"length" yaml:"length"`
	Audience     Audience `json:"audience" yaml:"audience"`
	Instructions string   `json:"instructions" yaml:"instructions"`
}

// DefaultSelection is the generator form's initial state.
func DefaultSelection() Selection {
	return Selection{
		Purpose:  PurposeExplain,
		Format:   FormatParagraph,
		Tone:     ToneNeutral,
		Length:   LengthModerate,
		Audience: AudienceGeneral,
	}
}

// Validate checks every enum value against its phrase table.
// Errors for all invalid fields are joined.
func (s Selection) Validate() error {
	var errs []error
	if _, err := s.Purpose.Phrase(); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.Format.Phrase(); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.Tone.Phrase(); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.Length.Phrase(); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.Audience.Phrase(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// With returns a copy of s with one field replaced. The value is not
// validated here; Assemble and Validate do that.
func (s Selection) With(field Field, value string) (Selection, error) {
	switch field {
	case FieldPurpose:
		s.Purpose = Purpose(value)
	case FieldTopic:
		s.Topic = value
	case FieldFormat:
		s.Format = Format(value)
	case FieldTone:
		s.Tone = Tone(value)
	case FieldLength:
		s.Length = Length(value)
	case FieldAudience:
		s.Audience = Audience(value)
	case FieldInstructions:
		s.Instructions = value
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return s, nil
}

// ParseSelection builds a Selection from loosely typed key/value input,
// starting from DefaultSelection. Empty enum values keep their default.
// Unknown keys and invalid values are errors.
func ParseSelection(values map[string]string) (Selection, error) {
	sel := DefaultSelection()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		field, err := ParseField(k)
		if err != nil {
			return Selection{}, err
		}
		v := values[k]
		if v == "" && field != FieldTopic && field != FieldInstructions {
			continue
		}
		if sel, err = sel.With(field, v); err != nil {
			return Selection{}, err
		}
	}

	if err := sel.Validate(); err != nil {
		return Selection{}, err
	}
	return sel, nil
}
