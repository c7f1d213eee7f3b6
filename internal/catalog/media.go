package catalog

import "strings"

// resolveImageURL expands an image reference. Absolute http(s) URLs pass
// through verbatim; anything else is treated as a media identifier and
// appended to the configured media base, with a leading slash stripped. The
// same rule must hold for exported data so backups render identically on
// another deployment.
func (s *Service) resolveImageURL(in string) string {
	if in == "" {
		return ""
	}
	if strings.HasPrefix(in, "http://") || strings.HasPrefix(in, "https://") {
		return in
	}
	if s.mediaBase == "" {
		return in
	}
	return s.mediaBase + "/" + strings.TrimPrefix(in, "/")
}
