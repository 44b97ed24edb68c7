package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/docqa/docqa-be/database"
	"github.com/docqa/docqa-be/types"
)

// AnswerNotFoundSentinel is the phrase the model is told to emit when the
// context does not contain the answer. Matched case-insensitively as a
// substring of the composed content.
const AnswerNotFoundSentinel = "cannot find the answer"

// AnswerService composes a grounded structured answer from retrieved chunks.
type AnswerService interface {
	ComposeAnswer(ctx context.Context, question string, hits []database.ScoredChunk) (*types.Answer, error)
}

// HasNotFoundSentinel reports whether an answer admits the context was
// insufficient, in which case source attribution must be suppressed.
func HasNotFoundSentinel(content string) bool {
	return strings.Contains(strings.ToLower(content), AnswerNotFoundSentinel)
}

// buildAnswerPrompt assembles the grounding prompt: every retrieved chunk is
// prefixed with its source page, and the model is constrained to the context
// and to a fixed JSON shape.
func buildAnswerPrompt(question string, hits []database.ScoredChunk) string {
	var contextBlock strings.Builder
	for i, hit := range hits {
		if i > 0 {
			contextBlock.WriteString("\n\n")
		}
		fmt.Fprintf(&contextBlock, "[Page %d]\n%s", hit.Chunk.Metadata.PageNum, hit.Chunk.Content)
	}

	return fmt.Sprintf(`You are an expert AI assistant.
Your task is to provide a detailed and comprehensive answer based strictly on the context below.

Instructions:
1. Use ONLY the supplied context. Do not use outside knowledge.
2. Elaborate on the key points. Do not give one-line answers.
3. Respond with a single JSON object of the shape:
{"title": "...", "subtitle": "...", "content": "...", "points": ["...", "..."]}
4. If the answer is not in the context, set content to "I cannot find the answer in the provided context."

Context:
%s

Question: %s

JSON Answer:`, contextBlock.String(), question)
}

// parseAnswer extracts the first balanced {...} span of the model's raw
// response and decodes it. When no such span exists or decoding fails, the
// raw text is returned verbatim as the answer content. Never fails.
func parseAnswer(raw string) *types.Answer {
	if span, ok := firstJSONObject(raw); ok {
		var answer types.Answer
		if err := json.Unmarshal([]byte(span), &answer); err == nil {
			return &answer
		}
	}
	return &types.Answer{
		Title:   "Answer",
		Content: raw,
	}
}

// firstJSONObject scans for the first balanced top-level {...} span,
// ignoring braces inside JSON strings.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
