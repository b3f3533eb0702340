package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrEmptyCompletion is returned when the model reply is blank after
// sanitization. It is a distinct outcome, not a transport failure: the
// call itself succeeded but produced nothing usable.
var ErrEmptyCompletion = errors.New("model produced an empty completion")

// Completer abstracts the completion client for testing
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Transformer runs the two fixed transform stages against the
// completion service.
type Transformer struct {
	completer Completer
}

// NewTransformer creates a transformer
func NewTransformer(c Completer) *Transformer {
	return &Transformer{completer: c}
}

// Enhance expands a raw prompt into a detailed specification. Failure or
// a blank reply falls back to the raw prompt unchanged, so enhancement
// can never block the caller.
func (t *Transformer) Enhance(ctx context.Context, raw string) string {
	enhanced, err := t.completer.Complete(ctx, EnhancePrompt, raw)
	if err != nil {
		log.Warn().Err(err).Msg("Prompt enhancement failed, using raw prompt")
		return raw
	}

	enhanced = strings.TrimSpace(enhanced)
	if enhanced == "" {
		log.Warn().Msg("Prompt enhancement returned blank reply, using raw prompt")
		return raw
	}

	return enhanced
}

// GenerateCode produces a sanitized, self-contained page for the given
// prompt. A blank reply after sanitization yields ErrEmptyCompletion.
func (t *Transformer) GenerateCode(ctx context.Context, prompt string) (string, error) {
	reply, err := t.completer.Complete(ctx, GeneratePrompt, prompt)
	if err != nil {
		return "", err
	}

	code := Sanitize(reply)
	if code == "" {
		return "", ErrEmptyCompletion
	}

	return code, nil
}

// Revise applies a change request to an existing page and returns the
// sanitized full document. A blank reply after sanitization yields
// ErrEmptyCompletion.
func (t *Transformer) Revise(ctx context.Context, currentCode, instruction string) (string, error) {
	user := "Current website:\n\n" + currentCode + "\n\nChange request:\n\n" + instruction

	reply, err := t.completer.Complete(ctx, RevisePrompt, user)
	if err != nil {
		return "", err
	}

	code := Sanitize(reply)
	if code == "" {
		return "", ErrEmptyCompletion
	}

	return code, nil
}
