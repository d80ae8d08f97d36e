package stream

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ErrInvalidLanguage is returned when a language code does not have the
// shape "xx" or "xx-YY" or names an unknown language or region.
var ErrInvalidLanguage = errors.New("invalid language code")

// NormalizeLanguage validates a language code and returns its canonical
// form. Accepted shapes are a two-letter ISO 639-1 language code,
// optionally followed by a hyphen and a two-letter ISO 3166-1 region
// code. The canonical form is lowercase language and uppercase region,
// e.g. "en-us" normalizes to "en-US".
func NormalizeLanguage(code string) (string, error) {
	langPart, regionPart, hasRegion := strings.Cut(code, "-")
	if !isAlpha(langPart, 2) {
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, code)
	}
	base, err := language.ParseBase(langPart)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, code)
	}

	if !hasRegion {
		return base.String(), nil
	}
	if !isAlpha(regionPart, 2) {
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, code)
	}
	region, err := language.ParseRegion(regionPart)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, code)
	}
	return base.String() + "-" + region.String(), nil
}

// ForTranscription constructs the stream identifier for transcription in
// the given language, e.g. "transcription:en-US".
func ForTranscription(lang string) (Type, error) {
	canonical, err := NormalizeLanguage(lang)
	if err != nil {
		return "", err
	}
	return Transcription + Type(":"+canonical), nil
}

// ForTranslation constructs the stream identifier for translation from
// source to target, e.g. "translation:es-ES:en-US".
func ForTranslation(source, target string) (Type, error) {
	src, err := NormalizeLanguage(source)
	if err != nil {
		return "", fmt.Errorf("source: %w", err)
	}
	dst, err := NormalizeLanguage(target)
	if err != nil {
		return "", fmt.Errorf("target: %w", err)
	}
	return Translation + Type(":"+src+":"+dst), nil
}

func isAlpha(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
