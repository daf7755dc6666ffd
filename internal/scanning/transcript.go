package scanning

import "strings"

// transcribePrompt is the shared prompt used by all LLM providers to act as
// a plain OCR engine
const transcribePrompt = `You are an OCR engine. Transcribe all text visible in this receipt or invoice image exactly as printed.

Rules:
- Keep the original line breaks and reading order, top to bottom.
- Keep numbers, currency symbols, dates and punctuation exactly as printed.
- Do not summarize, translate, correct or explain anything.
- Do not add any text before or after the transcription.
- Do not use markdown code blocks.
- If the image contains no readable text, return an empty response.`

// cleanTranscript strips markdown fences some models wrap around their answer
func cleanTranscript(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		if nl := strings.IndexByte(text, '\n'); nl >= 0 {
			text = text[nl+1:]
		} else {
			text = strings.TrimPrefix(text, "```")
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	return strings.TrimSpace(text)
}
