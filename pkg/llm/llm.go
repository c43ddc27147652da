// Package llm turns extracted document text into reworked text through a
// chat-completion model. The service treats the model as a black box: the
// returned string becomes the next document body, nothing more.
package llm

import (
	"context"
	"fmt"
	"strings"
)

// Action selects the text transform applied to a document.
type Action string

const (
	ActionRewrite   Action = "rewrite"
	ActionTranslate Action = "translate"
	ActionSummarize Action = "summarize"
)

// Actions lists the supported transforms.
func Actions() []Action {
	return []Action{ActionRewrite, ActionTranslate, ActionSummarize}
}

// Request describes one transform call.
type Request struct {
	Action         Action
	Tone           string // rewrite only; defaults to "professional"
	TargetLanguage string // translate only; required
	Text           string
}

// Transformer is the transform-service contract the pipeline depends on.
type Transformer interface {
	Transform(ctx context.Context, req Request) (string, error)
}

const systemPrompt = "You are a helpful document assistant."

// DefaultTone is used when a rewrite request carries no tone.
const DefaultTone = "professional"

// BuildPrompt constructs the user prompt for a request. An unsupported
// action or a translate request without a target language is an error.
func BuildPrompt(req Request) (string, error) {
	switch req.Action {
	case ActionSummarize:
		return "Summarize the following document clearly and briefly:\n\n" + req.Text, nil
	case ActionRewrite:
		tone := req.Tone
		if tone == "" {
			tone = DefaultTone
		}
		return fmt.Sprintf("Rewrite the following text in a %s tone:\n\n%s", strings.ToLower(tone), req.Text), nil
	case ActionTranslate:
		if strings.TrimSpace(req.TargetLanguage) == "" {
			return "", fmt.Errorf("translate requires a target language")
		}
		return fmt.Sprintf("Translate the following text into %s:\n\n%s", req.TargetLanguage, req.Text), nil
	default:
		return "", fmt.Errorf("unsupported action %q", req.Action)
	}
}
