package prompt

// Option describes one vocabulary entry for listings.
type Option struct {
	Value  string `json:"value" yaml:"value"`
	Label  string `json:"label" yaml:"label"`
	Phrase string `json:"phrase" yaml:"phrase"`
}

// Vocabulary is the closed set of options for one field.
type Vocabulary struct {
	Field   Field    `json:"field" yaml:"field"`
	Default string   `json:"default" yaml:"default"`
	Options []Option `json:"options" yaml:"options"`
}

type phrased interface {
	~string
	Phrase() (string, error)
	Label() string
}

func vocabulary[T phrased](field Field, def T, values []T) Vocabulary {
	v := Vocabulary{Field: field, Default: string(def)}
	for _, val := range values {
		phrase, _ := val.Phrase()
		v.Options = append(v.Options, Option{Value: string(val), Label: val.Label(), Phrase: phrase})
	}
	return v
}

// Catalog lists every enum field with its options, in form order.
func Catalog() []Vocabulary {
	def := DefaultSelection()
	return []Vocabulary{
		vocabulary(FieldPurpose, def.Purpose, Purposes()),
		vocabulary(FieldFormat, def.Format, Formats()),
		vocabulary(FieldTone, def.Tone, Tones()),
		vocabulary(FieldLength, def.Length, Lengths()),
		vocabulary(FieldAudience, def.Audience, Audiences()),
	}
}

// Values returns the raw option values of a vocabulary.
func (v Vocabulary) Values() []string {
	out := make([]string, 0, len(v.Options))
	for _, o := range v.Options {
		out = append(out, o.Value)
	}
	return out
}

// Lookup returns the vocabulary for field.
func Lookup(field Field) (Vocabulary, bool) {
	for _, v := range Catalog() {
		if v.Field == field {
			return v, true
		}
	}
	return Vocabulary{}, false
}
