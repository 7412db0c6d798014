package report

import (
	"strings"
)

var paramReplacer = strings.NewReplacer(
	" ", "_",
	",", "_",
	"=", "-",
	"(", "",
	")", "",
	"/", "_",
	"\\", "_",
)

// SanitizeParams turns a parameter description into a file-name fragment:
// "A=0.985, B=0.015" becomes "A-0.985__B-0.015".
func SanitizeParams(params string) string {
	return paramReplacer.Replace(params)
}

// ArtifactName builds <signal>_<kind>_<params>.<ext>. Distinct
// (signal, kind, params) triples give distinct names as long as the
// sanitized parameter strings differ.
func ArtifactName(signal, kind, params, ext string) string {
	name := paramReplacer.Replace(signal) + "_" + kind + "_" + SanitizeParams(params)
	if ext == "" {
		return name
	}
	return name + "." + strings.TrimPrefix(ext, ".")
}
