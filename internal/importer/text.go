package importer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/piwi3910/platelayout/internal/model"
)

var (
	lineSplit  = regexp.MustCompile(`\r?\n`)
	fieldSplit = regexp.MustCompile(`[;,]`)
)

// ParseText parses pasted piece lists: one "name,width,height,quantity"
// record per line, with comma or semicolon separators. Blank lines are
// skipped. There is no header detection, so a header line fails the batch.
func ParseText(text string) ([]model.TemplateRequest, error) {
	var reqs []model.TemplateRequest
	for i, line := range lineSplit.Split(text, -1) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := fieldSplit.Split(line, -1)
		if len(fields) < 4 {
			return nil, invalidf("line %d: expected name, width, height and quantity", i+1)
		}
		req, err := parseRow(fields, positional, "line "+strconv.Itoa(i+1))
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}
