package api

import (
	"net/url"
	"strings"
)

// PercentEncode escapes a query value, using %20 instead of + for
// spaces so the collaborator's strict decoder accepts it.
func PercentEncode(s string) string {
	s = url.QueryEscape(s)
	return strings.ReplaceAll(s, "+", "%20")
}
