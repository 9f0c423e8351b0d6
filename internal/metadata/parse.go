package metadata

import (
	"regexp"
	"strings"
)

// forbiddenConstruct marks tests that rely on dynamic evaluation. Those are
// never eligible, so extraction fails closed on them.
const forbiddenConstruct = "eval("

var (
	blockRe = regexp.MustCompile(`(?s)/\*---(.*?)---\*/`)
	keyRe   = regexp.MustCompile(`^[A-Za-z_$][\w.$-]*$`)
)

// Extract locates the frontmatter block in a test source and parses it.
// It returns an empty record when the source uses dynamic evaluation or
// carries no block.
func Extract(source string) Metadata {
	if strings.Contains(source, forbiddenConstruct) {
		return Metadata{}
	}
	m := blockRe.FindStringSubmatch(source)
	if m == nil {
		return Metadata{}
	}
	return Parse(m[1])
}

// Parse reads the body of a frontmatter block. Duplicate keys keep the last
// occurrence.
func Parse(block string) Metadata {
	lines := strings.Split(strings.ReplaceAll(block, "\r\n", "\n"), "\n")
	base := baseIndent(lines)

	var md Metadata
	for i := 0; i < len(lines); {
		line := lines[i]
		if isBlank(line) || indentOf(line) > base {
			i++
			continue
		}
		key, raw, ok := splitPair(strings.TrimSpace(line))
		if !ok {
			i++
			continue
		}

		j := i + 1
		var cont []string
		for j < len(lines) && (isBlank(lines[j]) || indentOf(lines[j]) > base) {
			if !isBlank(lines[j]) {
				cont = append(cont, strings.TrimSpace(lines[j]))
			}
			j++
		}

		md.set(key, valueOf(raw, cont))
		i = j
	}
	return md
}

func valueOf(raw string, cont []string) Value {
	switch {
	case isBlockScalar(raw):
		joined := strings.Join(cont, " ")
		return Value{Kind: KindString, Raw: joined}
	case raw == "" && len(cont) == 0:
		return Value{Kind: KindString}
	case raw == "" && isSequence(cont):
		items := make([]string, 0, len(cont))
		for _, c := range cont {
			items = append(items, strings.TrimSpace(strings.TrimPrefix(c, "-")))
		}
		return Value{Kind: KindList, Raw: strings.Join(cont, "\n"), List: items}
	case raw == "":
		rec := make(map[string]Value, len(cont))
		for _, c := range cont {
			if k, v, ok := splitPair(c); ok {
				rec[k] = Coerce(v)
			}
		}
		return Value{Kind: KindRecord, Raw: strings.Join(cont, "\n"), Record: rec}
	case len(cont) > 0 && strings.HasPrefix(raw, "[") && !strings.HasSuffix(raw, "]"):
		// Flow sequence wrapped over several lines.
		return Coerce(raw + " " + strings.Join(cont, " "))
	case len(cont) > 0 && !strings.HasPrefix(raw, "["):
		// Plain scalar folded over several lines.
		return Value{Kind: KindString, Raw: raw + " " + strings.Join(cont, " ")}
	default:
		return Coerce(raw)
	}
}

func splitPair(s string) (key, value string, ok bool) {
	idx := strings.Index(s, ":")
	if idx <= 0 {
		return "", "", false
	}
	key = strings.TrimSpace(s[:idx])
	if !keyRe.MatchString(key) {
		return "", "", false
	}
	return key, strings.TrimSpace(s[idx+1:]), true
}

// isBlockScalar matches ">" and "|" headers with optional chomping and
// indentation indicators (">-", "|+", "|2").
func isBlockScalar(raw string) bool {
	if raw == "" || (raw[0] != '>' && raw[0] != '|') {
		return false
	}
	for _, r := range raw[1:] {
		if r != '-' && r != '+' && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

func isSequence(cont []string) bool {
	for _, c := range cont {
		if c != "-" && !strings.HasPrefix(c, "- ") {
			return false
		}
	}
	return true
}

func baseIndent(lines []string) int {
	for _, l := range lines {
		if !isBlank(l) {
			return indentOf(l)
		}
	}
	return 0
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
