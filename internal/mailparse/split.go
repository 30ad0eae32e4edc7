package mailparse

import (
	"regexp"
	"strconv"
	"strings"
)

// Publication is one numbered block of publication text within an email
type Publication struct {
	Number int
	Text   string
}

var (
	// "Publicação: N." at the start of a line. The trailing dot matters:
	// it distinguishes the block marker from "Data de Publicação:" lines
	// inside each block. OCR sometimes mangles the cedilla.
	rePubMarker = regexp.MustCompile(`(?im)^\s*publica(?:ç|c|g)(?:ã|a)o\s*:\s*(\d+)\s*\.`)

	// CNJ-standard case number: NNNNNNN-DD.AAAA.J.TR.OOOO
	reCNJ = regexp.MustCompile(`\d{7}-\d{2}\.\d{4}\.\d\.\d{2}\.\d{4}`)

	reProcesso = regexp.MustCompile(`(?i)PROCESSO\s*[N°:\d]`)
)

// SplitPublications separates an email body into individual publications.
// Primary split is on "Publicação: N." markers; blocks are accepted only
// when they carry a CNJ number or a PROCESSO marker. Fallback splits on
// CNJ numbers; as a last resort the whole body is one publication when it
// mentions a CNJ number. A body with no recognizable publication yields nil.
func SplitPublications(body string) []Publication {
	if body == "" {
		return nil
	}

	var pubs []Publication

	markers := rePubMarker.FindAllStringSubmatchIndex(body, -1)
	for i, m := range markers {
		number, err := strconv.Atoi(body[m[2]:m[3]])
		if err != nil {
			continue
		}

		start := m[0]
		end := len(body)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}

		block := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(body[start:end]), "\n"))
		if block == "" {
			continue
		}
		if !reCNJ.MatchString(block) && !reProcesso.MatchString(block) {
			continue
		}

		pubs = append(pubs, Publication{Number: number, Text: block})
	}

	if len(pubs) > 0 {
		return pubs
	}

	// Fallback: one block per CNJ number.
	cnjs := reCNJ.FindAllStringIndex(body, -1)
	for i, m := range cnjs {
		start := m[0]
		end := len(body)
		if i+1 < len(cnjs) {
			end = cnjs[i+1][0]
		}

		block := strings.TrimSpace(body[start:end])
		if len(block) > 50 {
			pubs = append(pubs, Publication{Number: i + 1, Text: block})
		}
	}

	if len(pubs) > 0 {
		return pubs
	}

	if len(body) > 30 && reCNJ.MatchString(body) {
		return []Publication{{Number: 1, Text: body}}
	}

	return nil
}
