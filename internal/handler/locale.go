package handler

import (
	"net/http"

	"golang.org/x/text/language"
)

// Content rows carry English and Russian names; the Mini App picks the field
// matching the negotiated locale.
var supportedLocales = []language.Tag{
	language.English, // fallback
	language.Russian,
}

var localeMatcher = language.NewMatcher(supportedLocales)

// NegotiateLocale resolves the Accept-Language header against the supported
// content locales and stamps the response Content-Language header. Returns
// the BCP 47 base tag ("en" or "ru").
func NegotiateLocale(w http.ResponseWriter, r *http.Request) string {
	tag, _ := language.MatchStrings(localeMatcher, r.Header.Get("Accept-Language"))
	base, _ := tag.Base()
	locale := base.String()
	w.Header().Set("Content-Language", locale)
	return locale
}
