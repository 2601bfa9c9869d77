package webhook

import (
	"regexp"
	"strconv"
)

// Reference is a work package link found in free text.
type Reference struct {
	ID  int64
	URL string
}

// The keyword must be a whole path segment; any host and path prefix is accepted.
var referencePattern = regexp.MustCompile(`https?://[^\s/?#]+(?:/[^\s?#]*?)?/(?:wp|work_packages)/(\d+)`)

// ExtractReferences returns the work package links in text in order of first
// occurrence. Repeated ids are dropped. Ids of zero or beyond int64 are not
// treated as references.
func ExtractReferences(text string) []Reference {
	return mergeReferences(scanReferences(text))
}

// scanReferences returns every link in text, repeats included, so callers can
// filter individual links before ids are collapsed.
func scanReferences(text string) []Reference {
	matches := referencePattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	refs := make([]Reference, 0, len(matches))
	for _, m := range matches {
		id, err := strconv.ParseInt(text[m[2]:m[3]], 10, 64)
		if err != nil || id == 0 {
			continue
		}
		refs = append(refs, Reference{ID: id, URL: text[m[0]:m[1]]})
	}
	return refs
}

func mergeReferences(groups ...[]Reference) []Reference {
	var out []Reference
	seen := make(map[int64]struct{})
	for _, refs := range groups {
		for _, ref := range refs {
			if _, dup := seen[ref.ID]; dup {
				continue
			}
			seen[ref.ID] = struct{}{}
			out = append(out, ref)
		}
	}
	return out
}
