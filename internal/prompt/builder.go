package prompt

import (
	"fmt"
	"strings"
)

// JSON keys the model must return
const (
	KeyLyrics           = "lyrics"
	KeyStyleDescription = "styleDescription"
)

// Builder assembles the generation prompt from the songwriting guide and a song idea
type Builder struct {
	guide string
}

// NewBuilder creates a builder around the standard Suno v5 guide
func NewBuilder() *Builder {
	return &Builder{guide: Guide()}
}

// Build returns the full instruction string for one song idea.
// The idea is embedded verbatim; blank ideas are rejected by the caller.
func (b *Builder) Build(songIdea string) string {
	var sb strings.Builder

	sb.WriteString("CONTEXT:\n---\n")
	sb.WriteString(b.guide)
	sb.WriteString("---\n\n")

	sb.WriteString("TASK:\n")
	sb.WriteString("You are an expert songwriter and a master of the Suno v5 AI music generation platform. ")
	sb.WriteString("Your task is to generate lyrics and a style description based on the user's song idea, ")
	sb.WriteString("strictly following all the rules, guidelines, and best practices detailed in the context document provided above.\n\n")

	sb.WriteString("USER'S SONG IDEA:\n")
	sb.WriteString("\"" + songIdea + "\"\n\n")

	sb.WriteString("INSTRUCTIONS:\n")
	sb.WriteString("1. Analyze the user's song idea. If a genre is not specified, infer the most appropriate genre and style that fits the description.\n")
	sb.WriteString("2. Generate the **Lyrics**.\n")
	sb.WriteString("   - The lyrics must be complete with appropriate structural meta tags like [Intro], [Verse 1], [Chorus], [Bridge], [Outro].\n")
	sb.WriteString("   - Include other relevant meta tags for vocal style, mood, or effects where appropriate.\n")
	sb.WriteString("   - The lyrics themselves must be authentic, human-like, and avoid AI clichés as described in the guide.\n")
	sb.WriteString("   - Adhere to the genre-specific writing style and length budget (e.g., 16-bar verses for rap, conflict-driven themes for rock).\n")
	sb.WriteString("3. Generate the **Style Description**.\n")
	sb.WriteString("   - It must be a single, flowing narrative paragraph. DO NOT use bullet points or lists.\n")
	sb.WriteString("   - It must be approximately 1,000 characters long and never longer.\n")
	sb.WriteString("   - It must describe the genre, mood, instrumentation, production, and overall sonic vision as detailed in the \"Style Description Guidelines\" section of the guide.\n")
	sb.WriteString("   - Do not name real artists; describe their sonic qualities instead.\n")
	fmt.Fprintf(&sb, "4. Provide the output as a single, valid JSON object with exactly two keys: %q and %q. ", KeyLyrics, KeyStyleDescription)
	sb.WriteString("The value for each key must be a string. Ensure the JSON is well-formed and contains no other text.\n\n")

	sb.WriteString("EXAMPLE OUTPUT FORMAT:\n")
	sb.WriteString("{\n")
	fmt.Fprintf(&sb, "  %q: %q,\n", KeyLyrics, "[Intro]\n[Mood: Melancholic]\n...\n[Chorus]\n...")
	fmt.Fprintf(&sb, "  %q: %q\n", KeyStyleDescription, "Driving alternative rock anthem with electric guitars that soar and crunch...")
	sb.WriteString("}\n")

	return sb.String()
}
