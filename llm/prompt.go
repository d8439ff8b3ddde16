package llm

import (
	"fmt"
	"strings"

	"threadbrief/models"
)

func lengthGuidance(length models.Length) string {
	switch length {
	case models.LengthTLDR:
		return "3-5 bullets, very concise"
	case models.LengthDetailed:
		return "8-12 bullets, include a little extra context per bullet"
	default:
		return "5-8 bullets, concise but useful"
	}
}

func modeGuidance(mode models.Mode) string {
	if mode == models.ModeSummary {
		return "Summarize what the content says, staying faithful to the source."
	}
	return "Extract the key insights and non-obvious takeaways, not just a recap."
}

// BuildPrompt assembles the generation prompt for a brief request. Content
// is passed through untouched; trimming oversized input is the caller's job.
func BuildPrompt(content string, sourceType models.SourceType, mode models.Mode, length models.Length, outputLanguage string) string {
	if outputLanguage == "" {
		outputLanguage = "en"
	}

	var sb strings.Builder
	sb.WriteString("You are ThreadBrief, a tool that turns long-form content into a scannable brief.\n\n")
	fmt.Fprintf(&sb, "SOURCE TYPE: %s\n", sourceType)
	sb.WriteString(modeGuidance(mode))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Target length: %s\n", lengthGuidance(length))
	fmt.Fprintf(&sb, "Write the brief in language: %s\n\n", outputLanguage)
	sb.WriteString("Respond in exactly this format:\n")
	sb.WriteString("Title: <a short title>\n")
	sb.WriteString("Overview: <one paragraph overview>\n")
	sb.WriteString("Bullets:\n")
	sb.WriteString("- <key point>\n")
	sb.WriteString("- <key point>\n")
	sb.WriteString("WhyItMatters: <one or two sentences on why this matters>\n\n")
	sb.WriteString("Content:\n")
	sb.WriteString(content)

	return sb.String()
}
