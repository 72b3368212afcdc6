package report

import (
	"strconv"
	"strings"
)

// Bounds describes where a section body stops.
type Bounds struct {
	// End lists markers that close the section; the earliest one found wins.
	End []string `yaml:"end,omitempty"`
	// StopAtBlank closes the section at the first blank line that follows a data line.
	StopAtBlank bool `yaml:"stop_at_blank,omitempty"`
}

// Locate finds the first occurrence of header in text and returns the body
// between the end of the header line and the section end. ok is false when
// the header does not occur at all, which callers must treat as "no data of
// this kind" rather than as an empty table.
func Locate(text, header string, b Bounds) (body string, ok bool) {
	if header == "" {
		return "", false
	}
	at := strings.Index(text, header)
	if at < 0 {
		return "", false
	}

	rest := text[at+len(header):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[nl+1:]
	} else {
		return "", true
	}

	end := len(rest)
	for _, marker := range b.End {
		if marker == "" {
			continue
		}
		if i := strings.Index(rest, marker); i >= 0 && i < end {
			end = i
		}
	}
	rest = rest[:end]

	if b.StopAtBlank {
		rest = cutAtBlank(rest)
	}
	return rest, true
}

// cutAtBlank truncates s at the first blank line that comes after a line
// starting with an integer.
func cutAtBlank(s string) string {
	seenData := false
	offset := 0
	for offset < len(s) {
		next := strings.IndexByte(s[offset:], '\n')
		lineEnd := len(s)
		if next >= 0 {
			lineEnd = offset + next
		}
		line := s[offset:lineEnd]
		if strings.TrimSpace(line) == "" {
			if seenData {
				return s[:offset]
			}
		} else if isDataLine(line) {
			seenData = true
		}
		if next < 0 {
			break
		}
		offset = lineEnd + 1
	}
	return s
}

func isDataLine(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	_, err := strconv.Atoi(fields[0])
	return err == nil
}

// ScalarAfter returns the value printed after marker on the same line,
// taking the text after whichever of '=' and ':' comes first. Values
// may contain the other separator ("TITLE : beam E=2.1e5").
func ScalarAfter(text, marker string) (string, bool) {
	if marker == "" {
		return "", false
	}
	at := strings.Index(text, marker)
	if at < 0 {
		return "", false
	}
	line := text[at+len(marker):]
	if nl := strings.IndexByte(line, '\n'); nl >= 0 {
		line = line[:nl]
	}
	if i := strings.IndexAny(line, "=:"); i >= 0 {
		return strings.TrimSpace(line[i+1:]), true
	}
	return strings.TrimSpace(line), true
}
