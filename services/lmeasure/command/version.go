package command

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/common"
)

var versionRegex = regexp.MustCompile(`Release ([A-Za-z0-9.]+)`)

// ParseVersion extracts the release token from the first line of the tool banner
func ParseVersion(banner []byte) (string, error) {
	firstLine, _, _ := bytes.Cut(banner, []byte("\n"))
	match := versionRegex.FindSubmatch(firstLine)
	if match == nil {
		log.Debug("unable to parse version from output", "banner", string(firstLine))
		return "", fmt.Errorf("%w: no release marker in banner", common.ErrVersionUnavailable)
	}

	return string(match[1]), nil
}
