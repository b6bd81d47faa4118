// Package tzlabel maps free-form timezone identifiers to short display
// labels, selecting daylight or standard abbreviations from the record
// date. It is purely cosmetic: stored instants are never altered.
package tzlabel

import (
	"strings"
	"time"

	"golang.org/x/text/language"
)

// labelPair holds the localized variants of one display label.
type labelPair struct {
	zh string
	en string
}

// exactLabels maps full timezone identifiers, as the backend emits
// them, to their short labels. Checked before any heuristic.
var exactLabels = []struct {
	id    string
	label labelPair
}{
	{"美中部时区(Central Time, CT)", labelPair{zh: "美中", en: "CT"}},
	{"美西部时区(Pacific Time, PT)", labelPair{zh: "美西", en: "PT"}},
	{"美东部时区(Eastern Time, ET)", labelPair{zh: "美东", en: "ET"}},
	{"美山区时区(Mountain Time, MT)", labelPair{zh: "山区", en: "MT"}},
	{"北京时间(Beijing Time, CST)", labelPair{zh: "北京", en: "CST"}},
	{"Central Time, CT", labelPair{zh: "美中", en: "CT"}},
	{"Pacific Time, PT", labelPair{zh: "美西", en: "PT"}},
	{"Eastern Time, ET", labelPair{zh: "美东", en: "ET"}},
	{"Mountain Time, MT", labelPair{zh: "山区", en: "MT"}},
	{"Beijing Time, CST", labelPair{zh: "北京", en: "CST"}},
}

// dstFamily holds the standard and daylight variants for a timezone
// family. The beijing family carries no daylight shift.
type dstFamily struct {
	standard labelPair
	daylight labelPair
}

var dstFamilies = map[string]dstFamily{
	"central":  {standard: labelPair{zh: "美中", en: "CST"}, daylight: labelPair{zh: "美中", en: "CDT"}},
	"pacific":  {standard: labelPair{zh: "美西", en: "PST"}, daylight: labelPair{zh: "美西", en: "PDT"}},
	"eastern":  {standard: labelPair{zh: "美东", en: "EST"}, daylight: labelPair{zh: "美东", en: "EDT"}},
	"mountain": {standard: labelPair{zh: "山区", en: "MST"}, daylight: labelPair{zh: "山区", en: "MDT"}},
	"beijing":  {standard: labelPair{zh: "北京", en: "CST"}, daylight: labelPair{zh: "北京", en: "CST"}},
}

// familyKeywords detects a timezone family from identifier fragments,
// in either script.
var familyKeywords = []struct {
	family   string
	keywords []string
}{
	{"central", []string{"central", "中部"}},
	{"pacific", []string{"pacific", "西部"}},
	{"eastern", []string{"eastern", "东部"}},
	{"mountain", []string{"mountain", "山区"}},
	{"beijing", []string{"beijing", "北京"}},
}

// fallbackLabels are the last-resort keyword labels when no DST-aware
// family entry applies.
var fallbackLabels = map[string]labelPair{
	"central":  {zh: "美中", en: "CT"},
	"pacific":  {zh: "美西", en: "PT"},
	"eastern":  {zh: "美东", en: "ET"},
	"mountain": {zh: "山区", en: "MT"},
	"beijing":  {zh: "北京", en: "CST"},
}

var langMatcher = language.NewMatcher([]language.Tag{
	language.Chinese, // default
	language.English,
})

// dateLayout is the record-date shape fed into the DST window check.
const dateLayout = "2006-01-02"

// Label resolves a timezone identifier plus a record date (YYYY-MM-DD)
// to a short display label in the requested language. Resolution
// order: exact table, substring over the same table, DST-aware family
// table, raw keyword fallback, empty string.
func Label(timezoneID, recordDate, lang string) string {
	if timezoneID == "" {
		return ""
	}
	useEnglish := isEnglish(lang)

	for _, e := range exactLabels {
		if e.id == timezoneID {
			return pick(e.label, useEnglish)
		}
	}

	for _, e := range exactLabels {
		if strings.Contains(timezoneID, e.id) || strings.Contains(e.id, timezoneID) {
			return pick(e.label, useEnglish)
		}
	}

	if family := detectFamily(timezoneID); family != "" {
		if recordDate != "" {
			if f, ok := dstFamilies[family]; ok {
				if day, err := time.Parse(dateLayout, recordDate); err == nil && IsUSDaylightSaving(day) {
					return pick(f.daylight, useEnglish)
				}
				return pick(f.standard, useEnglish)
			}
		}
		if label, ok := fallbackLabels[family]; ok {
			return pick(label, useEnglish)
		}
	}

	return ""
}

// detectFamily returns the timezone family keyed by identifier
// fragments, or "".
func detectFamily(timezoneID string) string {
	lower := strings.ToLower(timezoneID)
	for _, f := range familyKeywords {
		for _, kw := range f.keywords {
			if strings.Contains(lower, kw) {
				return f.family
			}
		}
	}
	return ""
}

// isEnglish matches the requested display language against the
// supported set, defaulting to Chinese for anything unrecognized.
func isEnglish(lang string) bool {
	tag, err := language.Parse(lang)
	if err != nil {
		return false
	}
	_, index, _ := langMatcher.Match(tag)
	return index == 1
}

func pick(l labelPair, english bool) string {
	if english {
		return l.en
	}
	return l.zh
}
