package caption

// DefaultStyle is used when no style is given and when an unknown style key
// is looked up. Unknown keys resolving to the default is a documented
// fails-open contract, not an error.
const DefaultStyle = "descriptive"

// styleKeys lists the supported styles in presentation order.
var styleKeys = []string{"descriptive", "social", "minimal", "artistic", "documentary", "travel"}

var styles = map[string]string{
	"descriptive": "Write a 2-3 sentence professional caption for this image.",
	"social": `Generate an engaging, but straightforward caption for Instagram using the image and metadata. Follow these guidelines:
- First line should be descriptive of what the subject is if known
- Use a masculine voice and avoid excessively flowery language
- Use any location data if available
- Append the caption with up to 8 hashtags that are likely to drive traffic and engagement
- Keep the tone engaging but direct`,
	"minimal":     "Write a brief one-sentence caption.",
	"artistic":    "Write a poetic, evocative caption.",
	"documentary": "Write a factual, journalistic caption.",
	"travel":      "Write a travel photography caption emphasizing the location.",
}

// StyleKeys returns the supported style keys in presentation order.
func StyleKeys() []string {
	out := make([]string, len(styleKeys))
	copy(out, styleKeys)
	return out
}

// BuildPrompt resolves the style template (falling back to DefaultStyle on
// an unknown key) and appends the location context, when present, separated
// by a blank line. The result is provider-agnostic.
func BuildPrompt(style, locationContext string) string {
	tmpl, ok := styles[style]
	if !ok {
		tmpl = styles[DefaultStyle]
	}

	if locationContext == "" {
		return tmpl
	}

	return tmpl + "\n\n" + locationContext
}
