package taskgen

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are a CLIL expert and task designer. Follow instructions strictly."

// BuildStructuredPrompt asks for one reading, one writing and one speaking
// task as a single JSON object.
func BuildStructuredPrompt(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create CLIL-based tasks for the topic '%s' in %s.\n", req.Topic, req.Subject)
	b.WriteString("Include the 3 CLIL components:\n")
	b.WriteString("📖 Reading – task requiring reading/comprehension.\n")
	b.WriteString("✍️ Writing – task requiring written expression.\n")
	b.WriteString("🗣️ Speaking – task requiring verbal explanation.\n\n")
	b.WriteString("Each task should be 1–2 sentences.\n")
	writeLevels(&b, req)
	b.WriteString("\nReturn JSON format:\n")
	b.WriteString(`{"reading": "...", "writing": "...", "speaking": "..."}`)

	return b.String()
}

// BuildListPrompt asks for req.Count tasks, one "Task N: ..." per line.
func BuildListPrompt(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create %d CLIL-based tasks for the topic '%s' in %s.\n", req.Count, req.Topic, req.Subject)
	b.WriteString("Each task should be 1–2 sentences and practise both the subject content and English.\n")
	writeLevels(&b, req)
	b.WriteString("\nWrite one task per line, numbered like this:\n")
	for i := 1; i <= min(req.Count, 2); i++ {
		fmt.Fprintf(&b, "Task %d: ...\n", i)
	}
	b.WriteString("Do not add answers, headings or any other text.")

	return b.String()
}

func writeLevels(b *strings.Builder, req Request) {
	fmt.Fprintf(b, "English level: %s\n", req.Level)
	fmt.Fprintf(b, "Bloom's taxonomy level: %s\n", req.BloomLevel)
	fmt.Fprintf(b, "Task type: %s\n", req.Format)
}
