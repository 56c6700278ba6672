package rutube

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rutube-cli/rutube/source"
	"github.com/rutube-cli/rutube/util"
)

// idPatterns extract the video id from a page URL. The kind value doubles as
// the path literal preceding the id.
var idPatterns = map[source.Kind]*regexp.Regexp{
	source.KindVideo:  regexp.MustCompile(source.KindVideo.String() + `/(?P<id>\w+)`),
	source.KindShorts: regexp.MustCompile(source.KindShorts.String() + `/(?P<id>\w+)`),
	source.KindYappy:  regexp.MustCompile(source.KindYappy.String() + `/(?P<id>\w+)`),
}

// ClassifyKind determines the source flavor of a page URL by its path
// literal. Anything that is neither shorts nor yappy is a regular video.
func ClassifyKind(pageURL string) source.Kind {
	switch {
	case strings.Contains(pageURL, "/"+source.KindShorts.String()+"/"):
		return source.KindShorts
	case strings.Contains(pageURL, "/"+source.KindYappy.String()+"/"):
		return source.KindYappy
	default:
		return source.KindVideo
	}
}

// ExtractID pulls the video id out of a page URL of the given kind.
func ExtractID(kind source.Kind, pageURL string) (string, error) {
	groups := util.ReGroups(idPatterns[kind], pageURL)
	id, ok := groups["id"]
	if !ok || id == "" {
		return "", fmt.Errorf("%w: no %s id in %q", ErrInvalidURL, kind, pageURL)
	}
	return id, nil
}
