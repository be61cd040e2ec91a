package prompt

import (
	"fmt"
	"strings"

	"github.com/makeasinger/lyricarchitect/internal/model"
)

// genreRule describes how lyrics are written for one genre family
type genreRule struct {
	Genre     model.Genre
	Title     string
	CharRange string
	Rules     []string
}

var genreRules = []genreRule{
	{
		Genre:     model.GenreHiphop,
		Title:     "Rap & Hip-Hop",
		CharRange: "3,000-4,500 characters",
		Rules: []string{
			"Structure: 16-bar verses, 8-bar hooks.",
			"Rhyme: Use multi-syllable rhymes, internal rhymes. Avoid simple AABB schemes.",
			"Flow: Use varied cadences like triplet flow.",
			"Content: Use metaphors, similes, and storytelling. Avoid generic \"I'm a great rapper\" lines.",
		},
	},
	{
		Genre:     model.GenreRock,
		Title:     "Rock & Metal",
		CharRange: "1,500-2,500 characters",
		Rules: []string{
			"Emotion: Focus on conflict, struggle, anger, triumph.",
			"Imagery: Use powerful, visceral, and visual language (fire, storms, battles).",
			"Structure: 8-12 bar verses, 8-16 bar anthemic choruses. Choruses should be memorable and singable.",
		},
	},
	{
		Genre:     model.GenrePop,
		Title:     "Pop",
		CharRange: "1,200-2,000 characters",
		Rules: []string{
			"Simplicity: Clear, universal themes (love, heartbreak, empowerment).",
			"Catchiness: Repetitive, memorable hooks and simple language.",
			"Structure: Verse-Chorus-Verse-Chorus-Bridge-Chorus. 8-bar verses/choruses.",
		},
	},
	{
		Genre:     model.GenreCountry,
		Title:     "Country & Folk",
		CharRange: "1,500-2,500 characters",
		Rules: []string{
			"Storytelling: Narrative focus, personal experiences, vivid details of places and life.",
			"Structure: Verses carry the story forward; the chorus sums up its meaning.",
		},
	},
	{
		Genre:     model.GenreElectronic,
		Title:     "Electronic & EDM",
		CharRange: "400-1,000 characters",
		Rules: []string{
			"Economy: Few words, repeated as hooks over builds and drops.",
			"Structure: Mark [Build-Up] and [Drop] sections; drops may be instrumental.",
		},
	},
	{
		Genre:     model.GenreRnb,
		Title:     "R&B & Soul",
		CharRange: "1,200-2,200 characters",
		Rules: []string{
			"Intimacy: Sensual, personal, conversational lyrics.",
			"Vocals: Leave room for runs and ad-libs in (parentheses).",
		},
	},
}

var structureTags = []string{
	"Pop/Rock: [Intro] [Verse 1] [Chorus] [Verse 2] [Chorus] [Bridge] [Chorus] [Outro]",
	"Rap: [Intro] [Verse 1] (16 bars) [Hook/Chorus] (8 bars) [Verse 2] (16 bars) [Hook/Chorus] [Outro]",
	"EDM: [Intro] [Build-Up] [Drop] [Break] [Build-Up] [Drop] [Outro]",
}

var aiCliches = []string{"neon lights", "whispers in the dark", "symphony of", "kaleidoscope"}

// Guide returns the Suno v5 songwriting reference embedded in every prompt.
func Guide() string {
	var b strings.Builder

	b.WriteString("# The Complete Guide to Writing Custom Lyrics for Suno v5\n\n")

	b.WriteString("## Character Limits & Technical Requirements\n")
	fmt.Fprintf(&b, "- Lyrics Field: %s characters\n", thousands(model.MaxLyricsChars))
	fmt.Fprintf(&b, "- Style Description Field: %s characters\n", thousands(model.MaxStyleDescriptionChars))
	fmt.Fprintf(&b, "- Title: %d characters\n\n", model.MaxTitleChars)

	b.WriteString("## Understanding Meta Tags & Brackets\n")
	b.WriteString("Meta tags are bracketed instructions [like this] to control the AI. Use square brackets [] for all tags. Place tags before the section they control.\n\n")
	b.WriteString("Example:\n[Intro]\n[Mood: Dark, Intense]\n\n")

	b.WriteString("## Song Structure Tags\n")
	tags := make([]string, 0, len(model.ValidSectionTypes))
	for _, s := range model.ValidSectionTypes {
		tags = append(tags, "["+string(s)+"]")
	}
	b.WriteString("- " + strings.Join(tags, ", ") + "\n")
	b.WriteString("- Common Structures:\n")
	for _, s := range structureTags {
		b.WriteString("  - " + s + "\n")
	}
	b.WriteString("\n")

	b.WriteString("## Vocal Tags & Delivery\n")
	b.WriteString("- Gender/Range: [Vocalist: Male], [Vocalist: Female], [Vocalist: Alto], [Vocalist: Tenor], etc.\n")
	b.WriteString("- Style: [Vocal Style: Raspy], [Vocal Style: Smooth], [Vocal Style: Whisper], [Vocal Style: Powerful], [Spoken Word]\n")
	b.WriteString("- Effects: [Vocal Effect: Reverb], [Vocal Effect: Delay], [Vocal Effect: Autotuned], [Vocal Effect: Layered]\n")
	b.WriteString("- Harmonies: Use (parentheses) for background vocals in lyrics. e.g., \"I'm walking alone (walking alone, oh yeah)\"\n\n")

	b.WriteString("## Style Description Guidelines\n")
	fmt.Fprintf(&b, "The style description is a %s-character narrative paragraph. It defines: Genre, Mood, Instrumentation, Production Style, Vocal Characteristics, Tempo, and Era.\n\n", thousands(model.MaxStyleDescriptionChars))
	b.WriteString("Structure as a flowing paragraph, not a list.\n")
	b.WriteString("Never name real artists or bands. Describe their sonic qualities instead (e.g. \"gritty baritone with southern gospel inflections\").\n")
	b.WriteString("Example: \"Driving alternative rock anthem with soaring electric guitars, punchy live drums, and warm analog bass. Energetic and uplifting mood with anthemic vocal melodies. Crisp modern production balanced with organic grit. Dynamic build from intimate verses to explosive choruses. Stadium-ready sound with radio-friendly hooks.\"\n\n")

	b.WriteString("## Genre-Specific Lyric Writing\n")
	for _, g := range genreRules {
		fmt.Fprintf(&b, "\n### %s\n", g.Title)
		fmt.Fprintf(&b, "- Length: %s of lyrics including tags.\n", g.CharRange)
		for _, r := range g.Rules {
			b.WriteString("- " + r + "\n")
		}
	}
	b.WriteString("\n")

	b.WriteString("## Writing Human-Like, Authentic Lyrics\n")
	b.WriteString("- Write from experience: Base lyrics on real emotions and events.\n")
	b.WriteString("- Use specific, concrete imagery: Instead of \"I'm sad,\" write \"Coffee gone cold, your side of the bed untouched for weeks.\"\n")
	quoted := make([]string, 0, len(aiCliches))
	for _, c := range aiCliches {
		quoted = append(quoted, `"`+c+`"`)
	}
	b.WriteString("- Avoid AI clichés: " + strings.Join(quoted, ", ") + ".\n")
	b.WriteString("- Use conversational language: Write like you speak, using contractions.\n")
	b.WriteString("- Show, don't tell: Don't explain the emotion (\"I'm heartbroken\"), show it with imagery (\"I can't get out of bed / Your ghost is in my head\").\n")

	return b.String()
}

// thousands formats n with a comma separator (5000 -> "5,000")
func thousands(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	return s[:len(s)-3] + "," + s[len(s)-3:]
}
