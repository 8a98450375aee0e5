// Package prompt turns a set of categorical choices into a single
// natural-language instruction for a language model.
//
// Assembly is pure: the same Selection always yields the same bytes.
package prompt

import (
	"errors"
	"strings"
)

const (
	preamble = "You are an expert providing high-quality information"

	// TopicPlaceholder stands in for a topic the user has not supplied yet.
	TopicPlaceholder = "[topic]"

	requirementsHeading = "\n\nAdditional requirements:\n"

	// MissingTopicMessage is the user-facing warning for ErrMissingTopic.
	MissingTopicMessage = "Missing Topic: Please enter a topic before sending to AI"
)

// ErrMissingTopic is returned by CheckSendable while no real topic is set.
var ErrMissingTopic = errors.New("missing topic")

// Assemble builds the prompt text for sel. It fails only when an enum value
// has no phrase table entry.
func Assemble(sel Selection) (string, error) {
	purpose, err := sel.Purpose.Phrase()
	if err != nil {
		return "", err
	}
	format, err := sel.Format.Phrase()
	if err != nil {
		return "", err
	}
	tone, err := sel.Tone.Phrase()
	if err != nil {
		return "", err
	}
	length, err := sel.Length.Phrase()
	if err != nil {
		return "", err
	}
	audience, err := sel.Audience.Phrase()
	if err != nil {
		return "", err
	}

	topic := strings.TrimSpace(sel.Topic)
	if topic == "" {
		topic = TopicPlaceholder
	}

	var b strings.Builder

	b.WriteString(preamble)
	// Audience "other" has an empty phrase and leaves "information ." behind.
	if sel.Audience != AudienceGeneral {
		b.WriteString(" ")
		b.WriteString(audience)
	}
	b.WriteString(".\n\n")

	b.WriteString(purpose)
	b.WriteString(" ")
	b.WriteString(topic)

	if sel.Format != FormatOther {
		b.WriteString(" ")
		b.WriteString(format)
	}

	b.WriteString(" ")
	b.WriteString(tone)
	b.WriteString(".")

	b.WriteString(" ")
	b.WriteString(length)

	if sel.Instructions != "" {
		b.WriteString(requirementsHeading)
		b.WriteString(sel.Instructions)
	}

	return b.String(), nil
}

// MustAssemble is like Assemble but panics on an invalid Selection.
func MustAssemble(sel Selection) string {
	out, err := Assemble(sel)
	if err != nil {
		panic(err)
	}
	return out
}

// NeedsTopic reports whether assembled prompt text still carries the
// topic placeholder.
func NeedsTopic(assembled string) bool {
	return strings.Contains(assembled, TopicPlaceholder)
}

// CheckSendable gates the send action: the topic must be non-blank and the
// assembled text must not contain the placeholder.
func CheckSendable(sel Selection, assembled string) error {
	if strings.TrimSpace(sel.Topic) == "" || NeedsTopic(assembled) {
		return ErrMissingTopic
	}
	return nil
}
