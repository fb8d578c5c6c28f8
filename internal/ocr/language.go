package ocr

// Language tags produced by DetectLanguage.
const (
	LanguageSinhala = "si"
	LanguageTamil   = "ta"
	LanguageEnglish = "en"
)

// DetectLanguage tags the text by regional Unicode block: any Sinhala rune
// (U+0D80-U+0DFF) marks the text si, otherwise any Tamil rune
// (U+0B80-U+0BFF) marks it ta. Sinhala outranks Tamil in mixed-script
// documents regardless of which script appears first. Text with no regional
// characters defaults to English.
func DetectLanguage(text string) string {
	tamil := false
	for _, r := range text {
		switch {
		case r >= 0x0D80 && r <= 0x0DFF:
			return LanguageSinhala
		case r >= 0x0B80 && r <= 0x0BFF:
			tamil = true
		}
	}
	if tamil {
		return LanguageTamil
	}
	return LanguageEnglish
}
