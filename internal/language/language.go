package language

// Category is a closed set of conversation languages the bot distinguishes.
type Category string

const (
	Georgian Category = "georgian"
	English  Category = "english"
	Mixed    Category = "mixed"
)

// Detect classifies text by tallying Georgian-script runes (U+10A0..U+10FF)
// against Latin letters. A strict majority picks the category; ties,
// including empty or script-free text, are Mixed.
func Detect(text string) Category {
	var georgian, latin int
	for _, r := range text {
		switch {
		case r >= 0x10A0 && r <= 0x10FF:
			georgian++
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			latin++
		}
	}
	switch {
	case georgian > latin:
		return Georgian
	case latin > georgian:
		return English
	default:
		return Mixed
	}
}
