// Package prompt builds the text prompts sent to the completion model.
//
// Prompt construction is deterministic: the same inputs always produce
// byte-identical output.
package prompt

import (
	"fmt"
	"strings"

	"github.com/pruthakjani5/gtutor/internal/history"
)

// historyWindow is how many trailing turns of the transcript are
// included in a prompt.
const historyWindow = 5

const ragTemplate = `You are GTUtor, a helpful and informative AI assistant specializing in %s for GTU (Gujarat Technological University) students.
Answer the question using the reference passages below, your knowledge of %s, and the chat history provided and in a detailed and well-structured manner. Include all relevant information and specify the page numbers, line numbers, and PDF names where the information is found. If the answer requires additional knowledge beyond the provided context, clearly state this limitation and provide relevant information or insights using your knowledge. Do not provide incorrect information.
* Maintain a formal and academic tone throughout your response which is also simple to understand and informative. Answer as per required depth and weightage to the topic in subject.
If the information is not in the passages, state that and then use your own knowledge to answer.

Chat History:
%s

Reference Passages:
%s

QUESTION: '%s'

ANSWER:
`

const subjectKnowledgeTemplate = `You are GTUtor, a helpful and informative AI assistant specializing in %s for GTU (Gujarat Technological University) students. 
You have in-depth knowledge about GTU's curriculum and courses related to %s.
Please provide a comprehensive and informative answer to the following question, using your specialized knowledge and considering the chat history:

Chat History:
%s

QUESTION: %s

ANSWER:
`

const generalKnowledgeTemplate = `You are GTUtor, a helpful and informative AI assistant for GTU (Gujarat Technological University) students. 
You have general knowledge about GTU's curriculum and various courses.
Please provide a comprehensive and informative answer to the following question, using your knowledge and considering the chat history:

Chat History:
%s

QUESTION: %s

ANSWER:
`

// RAG builds the retrieval-augmented prompt from the query, the retrieved
// passages, and the subject's recent conversation.
func RAG(query string, passages []string, subject string, turns []history.Turn) string {
	labeled := make([]string, len(passages))
	for i, p := range passages {
		labeled[i] = fmt.Sprintf("PASSAGE %d: %s", i+1, sanitizePassage(p))
	}
	return fmt.Sprintf(ragTemplate,
		subject, subject,
		historyText(turns),
		strings.Join(labeled, "\n"),
		query,
	)
}

// Knowledge builds the model-knowledge-only prompt. When subject is empty
// the general variant is used.
func Knowledge(query, subject string, turns []history.Turn) string {
	if subject == "" {
		return fmt.Sprintf(generalKnowledgeTemplate, historyText(turns), query)
	}
	return fmt.Sprintf(subjectKnowledgeTemplate, subject, subject, historyText(turns), query)
}

// sanitizePassage strips quote characters and flattens newlines so a
// passage occupies a single labeled line.
func sanitizePassage(p string) string {
	p = strings.ReplaceAll(p, "'", "")
	p = strings.ReplaceAll(p, `"`, "")
	return strings.ReplaceAll(p, "\n", " ")
}

// historyText renders the last historyWindow turns as alternating
// Human/Assistant lines.
func historyText(turns []history.Turn) string {
	if len(turns) > historyWindow {
		turns = turns[len(turns)-historyWindow:]
	}
	lines := make([]string, len(turns))
	for i, t := range turns {
		lines[i] = fmt.Sprintf("Human: %s\nAssistant: %s", t.Human, t.Ai)
	}
	return strings.Join(lines, "\n")
}
