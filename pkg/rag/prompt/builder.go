package prompt

import (
	"fmt"
	"strings"

	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/vectorindex"
)

// ContextualBuilder assembles the grounded prompt for one question:
// retrieved excerpts first, then the task, guidelines, and the question
// itself, each in its own tagged section.
type ContextualBuilder struct {
	matches []vectorindex.Match
	query   string
}

func NewContextualBuilder(matches []vectorindex.Match, query string) *ContextualBuilder {
	return &ContextualBuilder{
		matches: matches,
		query:   query,
	}
}

func (b *ContextualBuilder) Build() string {
	var prompt strings.Builder

	b.writeReferenceMaterial(&prompt)
	b.writeTask(&prompt)
	b.writeGuidelines(&prompt)
	b.writeUserQuery(&prompt)

	return prompt.String()
}

func (b *ContextualBuilder) writeReferenceMaterial(prompt *strings.Builder) {
	prompt.WriteString("<reference_material>\n")
	prompt.WriteString("Excerpts from the user's uploaded PDF documents. Each excerpt names its source document and page.\n")

	for _, m := range b.matches {
		prompt.WriteString(fmt.Sprintf("\n--- EXCERPT FROM: %s (page %d) ---\n", m.Chunk.Document, m.Chunk.Page))
		prompt.WriteString(m.Chunk.Text)
		prompt.WriteString("\n--- END OF EXCERPT ---\n")
	}

	prompt.WriteString("</reference_material>\n\n")
}

func (b *ContextualBuilder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("You are a knowledgeable assistant helping the user understand and extract information from their PDF documents.\n")
	prompt.WriteString("Your goal is to provide exactly what the user needs based on their question and the reference material.\n")
	prompt.WriteString("</task>\n\n")
}

func (b *ContextualBuilder) writeGuidelines(prompt *strings.Builder) {
	prompt.WriteString("<guidelines>\n")
	prompt.WriteString("1. Base your answer strictly on the reference material provided\n")
	prompt.WriteString("2. If the material spans several documents, synthesize across them and say which document supports which point\n")
	prompt.WriteString("3. Show your work step-by-step for any calculations\n")
	prompt.WriteString("4. Be complete - don't skip relevant information from the material\n")
	prompt.WriteString("5. If the material doesn't contain what's being asked, say so honestly instead of guessing\n")
	prompt.WriteString("</guidelines>\n\n")
}

func (b *ContextualBuilder) writeUserQuery(prompt *strings.Builder) {
	prompt.WriteString("<user_question>\n")
	prompt.WriteString(b.query)
	prompt.WriteString("\n</user_question>\n\n")
	prompt.WriteString("Now provide your complete response based on the reference material:")
}
