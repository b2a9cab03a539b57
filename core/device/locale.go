package device

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// localeEnvVars are consulted in order for the user's preferred language.
var localeEnvVars = []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"}

// preferredLanguage returns the first preferred language from the environment.
// POSIX values like "en_US.UTF-8" or "de_DE@euro" are normalized to BCP 47.
func preferredLanguage(getenv func(string) string) language.Tag {
	for _, name := range localeEnvVars {
		value := getenv(name)
		if value == "" {
			continue
		}
		// LANGUAGE is a colon-separated priority list
		first, _, _ := strings.Cut(value, ":")
		if tag, ok := parsePOSIXLocale(first); ok {
			return tag
		}
	}
	return language.AmericanEnglish
}

func parsePOSIXLocale(value string) (language.Tag, bool) {
	value, _, _ = strings.Cut(value, ".")
	value, _, _ = strings.Cut(value, "@")
	if value == "" || value == "C" || value == "POSIX" {
		return language.Und, false
	}
	tag, err := language.Parse(strings.ReplaceAll(value, "_", "-"))
	if err != nil {
		return language.Und, false
	}
	return tag, true
}

// localeIdentifier renders a tag in underscore form, e.g. "en_US".
// The region is included only when it was given explicitly.
func localeIdentifier(tag language.Tag) string {
	base, _ := tag.Base()
	region, conf := tag.Region()
	if conf == language.Exact {
		return base.String() + "_" + region.String()
	}
	return base.String()
}

// translationFor picks the bundle localization best matching the preferred
// language. Without bundle localizations the base language is used.
func translationFor(preferred language.Tag, b Bundle) string {
	var supported []language.Tag
	for _, l := range append(append([]string(nil), b.Localizations...), b.DevelopmentRegion) {
		if tag, err := language.Parse(l); err == nil {
			supported = append(supported, tag)
		}
	}
	if len(supported) == 0 {
		base, _ := preferred.Base()
		return base.String()
	}
	_, index, _ := language.NewMatcher(supported).Match(preferred)
	return supported[index].String()
}

// timezoneName returns the IANA name of the given zone.
func timezoneName(loc *time.Location, getenv func(string) string) string {
	if name := loc.String(); name != "Local" && name != "" {
		return name
	}
	if tz := strings.TrimPrefix(getenv("TZ"), ":"); tz != "" {
		return tz
	}
	if target, err := os.Readlink("/etc/localtime"); err == nil {
		if _, name, ok := strings.Cut(filepath.ToSlash(target), "zoneinfo/"); ok {
			return name
		}
	}
	return "UTC"
}
