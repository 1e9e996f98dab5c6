package contributor

import (
	"fmt"
	"sort"
	"strings"
)

// SystemPrompt is the shared preamble for every LLM-backed stage call.
const SystemPrompt = "You are one specialist on a game design team writing a shared " +
	"game design document. Write only your own section, in markdown, without " +
	"headings for other sections. Be concrete and concise."

// BuildPrompt renders an invocation into a single user prompt. Upstream
// sections come first so the model sees the document as it stands, then the
// stage instruction, then any revision feedback.
func BuildPrompt(inv *Invocation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Game pitch:\n%s\n\n", strings.TrimSpace(inv.Pitch))

	writeState(&b, "Project settings", inv.AppState)
	writeState(&b, "Player preferences", inv.UserState)

	if len(inv.PriorSections) > 0 {
		b.WriteString("Document so far:\n")
		for _, section := range inv.PriorSections {
			fmt.Fprintf(&b, "## %s\n%s\n\n", section.Path, strings.TrimSpace(section.Content))
		}
	}

	fmt.Fprintf(&b, "Your role: %s.\n", inv.Role)
	fmt.Fprintf(&b, "Task: %s\n", strings.TrimSpace(inv.Instruction))

	if inv.PreviousDraft != "" {
		fmt.Fprintf(&b, "\nYour previous draft:\n%s\n", strings.TrimSpace(inv.PreviousDraft))
	}
	if inv.Feedback != "" {
		fmt.Fprintf(&b, "\nRevision feedback to address:\n%s\n", strings.TrimSpace(inv.Feedback))
	}

	return b.String()
}

// writeState renders one state scope as sorted key/value lines. Map order
// is randomized, so sorting keeps prompts reproducible.
func writeState(b *strings.Builder, title string, state map[string]interface{}) {
	if len(state) == 0 {
		return
	}
	keys := make([]string, 0, len(state))
	for k := range state {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(b, "%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(b, "- %s: %v\n", k, state[k])
	}
	b.WriteString("\n")
}
