// Package pathdata parses, edits and serializes SVG path "d" strings while
// preserving each command's absolute/relative authoring.
package pathdata

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	tdstrconv "github.com/tdewolff/parse/v2/strconv"
)

// Command is one path segment. Cmd keeps the original letter case:
// uppercase is absolute, lowercase relative to the current pen position.
type Command struct {
	Cmd  byte
	Args []float64
}

// Relative reports whether the command letter is lowercase.
func (c Command) Relative() bool {
	return c.Cmd >= 'a' && c.Cmd <= 'z'
}

// Upper returns the absolute form of the command letter.
func (c Command) Upper() byte {
	if c.Relative() {
		return c.Cmd - ('a' - 'A')
	}
	return c.Cmd
}

// argCounts is the number of arguments in one group for each command.
var argCounts = map[byte]int{
	'M': 2,
	'Z': 0,
	'L': 2,
	'H': 1,
	'V': 1,
	'C': 6,
	'S': 4,
	'Q': 4,
	'T': 2,
	'A': 7,
}

func skipCommaWhitespace(b []byte) int {
	i := 0
	for i < len(b) && (b[i] == ' ' || b[i] == ',' || b[i] == '\n' || b[i] == '\r' || b[i] == '\t') {
		i++
	}
	return i
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Parse tokenizes a path data string. Implicitly repeated argument groups
// become separate commands with the same letter, except after a moveto where
// they become lineto (l for m, L for M). Unknown command letters and any
// numbers following them are skipped, as are incomplete argument groups.
func Parse(d string) []Command {
	b := []byte(d)
	var cmds []Command
	var cur byte // 0 while skipping an unknown command
	i := skipCommaWhitespace(b)
	for i < len(b) {
		if isLetter(b[i]) {
			letter := b[i]
			i++
			upper := letter
			if upper >= 'a' {
				upper -= 'a' - 'A'
			}
			if _, ok := argCounts[upper]; !ok {
				slog.Debug("skipping unknown path command", "command", string(letter))
				cur = 0
				i += skipCommaWhitespace(b[i:])
				continue
			}
			cur = letter
			if upper == 'Z' {
				cmds = append(cmds, Command{Cmd: cur})
			}
			i += skipCommaWhitespace(b[i:])
			continue
		}

		upper := cur
		if upper >= 'a' {
			upper -= 'a' - 'A'
		}
		n := argCounts[upper]
		if cur == 0 || n == 0 {
			// Stray number: unknown command arguments, or numbers after Z.
			_, adv := tdstrconv.ParseFloat(b[i:])
			if adv == 0 {
				adv = 1
			}
			i += adv
			i += skipCommaWhitespace(b[i:])
			continue
		}

		args, adv, ok := parseGroup(b[i:], upper, n)
		i += adv
		if !ok {
			slog.Debug("dropping incomplete path argument group", "command", string(cur))
			// Resynchronise at the next letter.
			for i < len(b) && !isLetter(b[i]) {
				i++
			}
			continue
		}
		cmds = append(cmds, Command{Cmd: cur, Args: args})
		switch cur {
		case 'M':
			cur = 'L'
		case 'm':
			cur = 'l'
		}
		i += skipCommaWhitespace(b[i:])
	}
	return cmds
}

// parseGroup reads one argument group. Arc flags are single 0/1 digits that
// may be written without separators.
func parseGroup(b []byte, upper byte, n int) ([]float64, int, bool) {
	args := make([]float64, 0, n)
	i := 0
	for j := 0; j < n; j++ {
		i += skipCommaWhitespace(b[i:])
		if i >= len(b) {
			return nil, i, false
		}
		if upper == 'A' && (j == 3 || j == 4) {
			switch b[i] {
			case '0':
				args = append(args, 0)
			case '1':
				args = append(args, 1)
			default:
				return nil, i, false
			}
			i++
			continue
		}
		v, adv := tdstrconv.ParseFloat(b[i:])
		if adv == 0 {
			return nil, i, false
		}
		args = append(args, v)
		i += adv
	}
	return args, i, true
}

// ScanNumbers reads every number in a comma/whitespace separated list such as
// a points or viewBox attribute. Scanning stops at the first unparsable byte.
func ScanNumbers(s string) []float64 {
	b := []byte(s)
	var out []float64
	i := skipCommaWhitespace(b)
	for i < len(b) {
		v, adv := tdstrconv.ParseFloat(b[i:])
		if adv == 0 {
			break
		}
		out = append(out, v)
		i += adv
		i += skipCommaWhitespace(b[i:])
	}
	return out
}

// FormatNumber renders v rounded to 3 decimal places without trailing zeros.
func FormatNumber(v float64) string {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Serialize rebuilds a path data string, preserving command letters.
func Serialize(cmds []Command) string {
	var sb strings.Builder
	for i, c := range cmds {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte(c.Cmd)
		for j, a := range c.Args {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(FormatNumber(a))
		}
	}
	return sb.String()
}

// Clone returns a deep copy of cmds.
func Clone(cmds []Command) []Command {
	out := make([]Command, len(cmds))
	for i, c := range cmds {
		out[i] = Command{Cmd: c.Cmd, Args: append([]float64(nil), c.Args...)}
	}
	return out
}
