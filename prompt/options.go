package prompt

// Purpose is what the model is asked to do with the topic.
type Purpose string

const (
	PurposeExplain   Purpose = "explain"
	PurposeCreate    Purpose = "create"
	PurposeSummarize Purpose = "summarize"
	PurposeAnalyze   Purpose = "analyze"
	PurposeGenerate  Purpose = "generate"
	PurposeTranslate Purpose = "translate"
	PurposeInstruct  Purpose = "instruct"
	PurposeCompare   Purpose = "compare"
	PurposeRoleplay  Purpose = "roleplay"
	PurposeOther     Purpose = "other"
)

// Purposes lists every purpose in form order.
func Purposes() []Purpose {
	return []Purpose{
		PurposeExplain, PurposeCreate, PurposeSummarize, PurposeAnalyze, PurposeGenerate,
		PurposeTranslate, PurposeInstruct, PurposeCompare, PurposeRoleplay, PurposeOther,
	}
}

// Phrase returns the fragment that opens the request sentence.
// PurposeOther maps to an empty fragment.
func (p Purpose) Phrase() (string, error) {
	switch p {
	case PurposeExplain:
		return "Explain", nil
	case PurposeCreate:
		return "Create", nil
	case PurposeSummarize:
		return "Summarize", nil
	case PurposeAnalyze:
		return "Analyze", nil
	case PurposeGenerate:
		return "Generate ideas for", nil
	case PurposeTranslate:
		return "Translate", nil
	case PurposeInstruct:
		return "Provide step-by-step instructions for", nil
	case PurposeCompare:
		return "Compare and contrast", nil
	case PurposeRoleplay:
		return "Role-play as an expert in", nil
	case PurposeOther:
		return "", nil
	}
	return "", optionError(FieldPurpose, string(p))
}

// Label returns the purpose as shown in the generator form.
func (p Purpose) Label() string {
	switch p {
	case PurposeExplain:
		return "Explain a concept"
	case PurposeCreate:
		return "Create content"
	case PurposeSummarize:
		return "Summarize information"
	case PurposeAnalyze:
		return "Analyze or evaluate"
	case PurposeGenerate:
		return "Generate ideas"
	case PurposeTranslate:
		return "Translate content"
	case PurposeInstruct:
		return "Give step-by-step instructions"
	case PurposeCompare:
		return "Compare and contrast"
	case PurposeRoleplay:
		return "Role-play as a character/expert"
	case PurposeOther:
		return "Other (specify in additional instructions)"
	}
	return string(p)
}

// Format is the requested output shape.
type Format string

const (
	FormatParagraph Format = "paragraph"
	FormatBullet    Format = "bullet"
	FormatNumbered  Format = "numbered"
	FormatTable     Format = "table"
	FormatDialog    Format = "dialog"
	FormatEssay     Format = "essay"
	FormatCode      Format = "code"
	FormatStory     Format = "story"
	FormatJSON      Format = "json"
	FormatOther     Format = "other"
)

func Formats() []Format {
	return []Format{
		FormatParagraph, FormatBullet, FormatNumbered, FormatTable, FormatDialog,
		FormatEssay, FormatCode, FormatStory, FormatJSON, FormatOther,
	}
}

// Phrase returns the format fragment. FormatOther maps to an empty fragment.
func (f Format) Phrase() (string, error) {
	switch f {
	case FormatParagraph:
		return "in paragraph format", nil
	case FormatBullet:
		return "as a bullet point list", nil
	case FormatNumbered:
		return "as a numbered list", nil
	case FormatTable:
		return "organized in a table", nil
	case FormatDialog:
		return "as a dialogue or conversation", nil
	case FormatEssay:
		return "in essay format", nil
	case FormatCode:
		return "with code examples", nil
	case FormatStory:
		return "as a narrative or story", nil
	case FormatJSON:
		return "in JSON format", nil
	case FormatOther:
		return "", nil
	}
	return "", optionError(FieldFormat, string(f))
}

// Label returns the format as shown in the generator form.
func (f Format) Label() string {
	switch f {
	case FormatParagraph:
		return "Paragraphs"
	case FormatBullet:
		return "Bullet points"
	case FormatNumbered:
		return "Numbered list"
	case FormatTable:
		return "Table"
	case FormatDialog:
		return "Dialog/Conversation"
	case FormatEssay:
		return "Essay"
	case FormatCode:
		return "Code"
	case FormatStory:
		return "Story/Narrative"
	case FormatJSON:
		return "JSON"
	case FormatOther:
		return "Other (specify below)"
	}
	return string(f)
}

// Tone is the requested register of the answer.
type Tone string

const (
	ToneNeutral      Tone = "neutral"
	ToneFriendly     Tone = "friendly"
	ToneProfessional Tone = "professional"
	ToneAcademic     Tone = "academic"
	ToneEnthusiastic Tone = "enthusiastic"
	ToneTechnical    Tone = "technical"
	ToneSimple       Tone = "simple"
	ToneHumorous     Tone = "humorous"
	ToneCreative     Tone = "creative"
	TonePersuasive   Tone = "persuasive"
)

func Tones() []Tone {
	return []Tone{
		ToneNeutral, ToneFriendly, ToneProfessional, ToneAcademic, ToneEnthusiastic,
		ToneTechnical, ToneSimple, ToneHumorous, ToneCreative, TonePersuasive,
	}
}

// Phrase returns the tone fragment; Assemble adds the closing period.
func (t Tone) Phrase() (string, error) {
	switch t {
	case ToneNeutral:
		return "using a neutral, objective tone", nil
	case ToneFriendly:
		return "in a friendly, conversational style", nil
	case ToneProfessional:
		return "in a professional, formal manner", nil
	case ToneAcademic:
		return "in an academic, scholarly style", nil
	case ToneEnthusiastic:
		return "with an enthusiastic, energetic tone", nil
	case ToneTechnical:
		return "using precise, technical language", nil
	case ToneSimple:
		return "using simple, easy-to-understand language", nil
	case ToneHumorous:
		return "with a light-hearted, humorous tone", nil
	case ToneCreative:
		return "with a creative, imaginative approach", nil
	case TonePersuasive:
		return "in a persuasive, convincing manner", nil
	}
	return "", optionError(FieldTone, string(t))
}

// Label returns the tone as shown in the generator form.
func (t Tone) Label() string {
	switch t {
	case ToneNeutral:
		return "Neutral/Objective"
	case ToneFriendly:
		return "Friendly/Conversational"
	case ToneProfessional:
		return "Professional/Formal"
	case ToneAcademic:
		return "Academic/Scholarly"
	case ToneEnthusiastic:
		return "Enthusiastic/Energetic"
	case ToneTechnical:
		return "Technical/Precise"
	case ToneSimple:
		return "Simple/Easy to understand"
	case ToneHumorous:
		return "Humorous/Light-hearted"
	case ToneCreative:
		return "Creative/Imaginative"
	case TonePersuasive:
		return "Persuasive/Convincing"
	}
	return string(t)
}

// Length is the requested level of detail.
type Length string

const (
	LengthConcise       Length = "concise"
	LengthModerate      Length = "moderate"
	LengthDetailed      Length = "detailed"
	LengthComprehensive Length = "comprehensive"
)

func Lengths() []Length {
	return []Length{LengthConcise, LengthModerate, LengthDetailed, LengthComprehensive}
}

// Phrase returns a complete sentence, terminal period included.
func (l Length) Phrase() (string, error) {
	switch l {
	case LengthConcise:
		return "Keep it concise (1-2 paragraphs).", nil
	case LengthModerate:
		return "Provide moderate detail (3-5 paragraphs).", nil
	case LengthDetailed:
		return "Include detailed information (6-8 paragraphs).", nil
	case LengthComprehensive:
		return "Be comprehensive and thorough (9+ paragraphs).", nil
	}
	return "", optionError(FieldLength, string(l))
}

// Label returns the length as shown in the generator form.
func (l Length) Label() string {
	switch l {
	case LengthConcise:
		return "Concise (1-2 paragraphs)"
	case LengthModerate:
		return "Moderate (3-5 paragraphs)"
	case LengthDetailed:
		return "Detailed (6-8 paragraphs)"
	case LengthComprehensive:
		return "Comprehensive (9+ paragraphs)"
	}
	return string(l)
}

// Audience is who the answer is written for.
type Audience string

const (
	AudienceGeneral      Audience = "general"
	AudienceBeginner     Audience = "beginner"
	AudienceIntermediate Audience = "intermediate"
	AudienceExpert       Audience = "expert"
	AudienceStudents     Audience = "students"
	AudienceChildren     Audience = "children"
	AudienceTechnical    Audience = "technical"
	AudienceBusiness     Audience = "business"
	AudienceOther        Audience = "other"
)

func Audiences() []Audience {
	return []Audience{
		AudienceGeneral, AudienceBeginner, AudienceIntermediate, AudienceExpert, AudienceStudents,
		AudienceChildren, AudienceTechnical, AudienceBusiness, AudienceOther,
	}
}

// Phrase returns the audience fragment. AudienceOther maps to an empty fragment.
func (a Audience) Phrase() (string, error) {
	switch a {
	case AudienceGeneral:
		return "for a general audience", nil
	case AudienceBeginner:
		return "for beginners with no prior knowledge", nil
	case AudienceIntermediate:
		return "for people with intermediate understanding", nil
	case AudienceExpert:
		return "for experts and professionals", nil
	case AudienceStudents:
		return "for students", nil
	case AudienceChildren:
		return "for children", nil
	case AudienceTechnical:
		return "for a technical audience", nil
	case AudienceBusiness:
		return "for business professionals", nil
	case AudienceOther:
		return "", nil
	}
	return "", optionError(FieldAudience, string(a))
}

// Label returns the audience as shown in the generator form.
func (a Audience) Label() string {
	switch a {
	case AudienceGeneral:
		return "General audience"
	case AudienceBeginner:
		return "Beginners/Novices"
	case AudienceIntermediate:
		return "Intermediate level"
	case AudienceExpert:
		return "Experts/Professionals"
	case AudienceStudents:
		return "Students"
	case AudienceChildren:
		return "Children"
	case AudienceTechnical:
		return "Technical audience"
	case AudienceBusiness:
		return "Business professionals"
	case AudienceOther:
		return "Other (specify below)"
	}
	return string(a)
}
