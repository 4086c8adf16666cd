package synth

import (
	"path"
	"strings"

	"github.com/guardian/uk-coronavirus-data-alerts/internal/domain"
)

// AppName returns the deterministic name of the compute target of v.
func AppName(v domain.Variant, baseName string) string {
	return string(v) + "-" + baseName
}

// ArtifactName returns the archive name the packaging step produces for v.
func ArtifactName(v domain.Variant, baseName string) string {
	return AppName(v, baseName) + ".zip"
}

// logicalSuffix turns a variant tag into a logical id fragment: VERIFIED -> Verified.
func logicalSuffix(v domain.Variant) string {
	s := strings.ToLower(string(v))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (s *Synthesizer) artifactKey(v domain.Variant) string {
	return path.Join(s.settings.BaseName, s.settings.Stage, AppName(v, s.settings.BaseName), ArtifactName(v, s.settings.BaseName))
}
