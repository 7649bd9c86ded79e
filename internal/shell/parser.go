// Package shell parses the embedded command line: tokenization and
// quoting, redirection, pipelines chained with |, &&, ||, and ;, brace
// and glob expansion, and command substitution.
package shell

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	shellquote "github.com/kballard/go-shellquote"
	"github.com/zyedidia/glob"
)

// ChainOperator connects two commands in a Pipeline.
type ChainOperator int

const (
	// OpNone is the zero value used for the first command, which has no
	// preceding operator.
	OpNone ChainOperator = iota
	OpPipe
	OpAnd
	OpOr
	OpSequential
	OpBackground
)

func (o ChainOperator) String() string {
	switch o {
	case OpPipe:
		return "|"
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	case OpSequential:
		return ";"
	case OpBackground:
		return "&"
	default:
		return ""
	}
}

// Redirect describes one I/O redirection attached to a command.
type Redirect struct {
	Kind   RedirectKind
	Target string
	FD     int // source fd for Kind == RedirectDup, else unused
}

type RedirectKind int

const (
	RedirectInput RedirectKind = iota
	RedirectOutput
	RedirectAppend
	RedirectDup
)

// ParsedCommand is one command in a Pipeline: a name, its arguments, and
// any redirections attached to it.
type ParsedCommand struct {
	Command    string
	Args       []string
	Redirects  []Redirect
	Background bool
}

// Pipeline is a full parsed command line: commands linked by operators.
// len(Operators) == len(Commands)-1; Operators[i] connects Commands[i] to
// Commands[i+1].
type Pipeline struct {
	Commands  []ParsedCommand
	Operators []ChainOperator
}

// ParseError reports a malformed command line with the offending input.
type ParseError struct {
	Input string
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("shell: %s: %q", e.Msg, e.Input)
}

// Parse splits input into a Pipeline, expanding environment variables and
// command substitutions before tokenizing, then brace- and glob-expanding
// each resulting word against the working directory.
func Parse(input string, env Environment) (*Pipeline, error) {
	segments, ops, background := splitChain(input)
	if len(segments) == 0 {
		return nil, &ParseError{Input: input, Msg: "empty command"}
	}

	pipeline := &Pipeline{Operators: ops}
	for i, seg := range segments {
		cmd, err := parseSegment(seg, env)
		if err != nil {
			return nil, err
		}
		if i == len(segments)-1 {
			cmd.Background = background
		}
		pipeline.Commands = append(pipeline.Commands, cmd)
	}
	return pipeline, nil
}

// Environment is the subset of shell state substitution and command
// substitution need; satisfied by internal/shell's own Interpreter in
// production and a fake map in tests.
type Environment interface {
	Getenv(name string) string
	Run(command string) (string, error)
}

// splitChain splits a command line on |, &&, ||, ; at the top level
// (outside quotes), returning the segment text, the operator following
// each segment but the last, and whether the whole line ends in a bare &.
func splitChain(input string) (segments []string, ops []ChainOperator, background bool) {
	var cur strings.Builder
	var quote rune
	runes := []rune(input)
	i := 0
	flush := func() {
		s := strings.TrimSpace(cur.String())
		if s != "" {
			segments = append(segments, s)
		}
		cur.Reset()
	}
	for i < len(runes) {
		r := runes[i]
		if quote != 0 {
			cur.WriteRune(r)
			if r == quote {
				quote = 0
			}
			i++
			continue
		}
		switch {
		case r == '\'' || r == '"':
			quote = r
			cur.WriteRune(r)
			i++
		case r == '\\' && i+1 < len(runes):
			cur.WriteRune(r)
			cur.WriteRune(runes[i+1])
			i += 2
		case r == '|' && i+1 < len(runes) && runes[i+1] == '|':
			flush()
			ops = append(ops, OpOr)
			i += 2
		case r == '&' && i+1 < len(runes) && runes[i+1] == '&':
			flush()
			ops = append(ops, OpAnd)
			i += 2
		case r == '|':
			flush()
			ops = append(ops, OpPipe)
			i++
		case r == ';':
			flush()
			ops = append(ops, OpSequential)
			i++
		case r == '&':
			// Trailing & backgrounds the whole pipeline; mid-line & is
			// treated the same as a sequential separator.
			if i == len(runes)-1 {
				background = true
				flush()
			} else {
				flush()
				ops = append(ops, OpSequential)
			}
			i++
		default:
			cur.WriteRune(r)
			i++
		}
	}
	flush()
	if len(ops) > len(segments)-1 {
		ops = ops[:len(segments)-1]
	}
	return segments, ops, background
}

// parseSegment expands $VAR/${VAR} and $(command), tokenizes the result
// (quote-aware via go-shellquote), peels off redirections, then brace- and
// glob-expands each remaining word.
func parseSegment(seg string, env Environment) (ParsedCommand, error) {
	expanded, err := expandSubstitutions(seg, env)
	if err != nil {
		return ParsedCommand{}, err
	}

	words, err := shellquote.Split(expanded)
	if err != nil {
		return ParsedCommand{}, &ParseError{Input: seg, Msg: err.Error()}
	}

	var cmd ParsedCommand
	var args []string
	for i := 0; i < len(words); i++ {
		w := words[i]
		switch {
		case w == "<" && i+1 < len(words):
			i++
			cmd.Redirects = append(cmd.Redirects, Redirect{Kind: RedirectInput, Target: words[i]})
		case w == ">" && i+1 < len(words):
			i++
			cmd.Redirects = append(cmd.Redirects, Redirect{Kind: RedirectOutput, Target: words[i]})
		case w == ">>" && i+1 < len(words):
			i++
			cmd.Redirects = append(cmd.Redirects, Redirect{Kind: RedirectAppend, Target: words[i]})
		case strings.HasPrefix(w, "<") && len(w) > 1:
			cmd.Redirects = append(cmd.Redirects, Redirect{Kind: RedirectInput, Target: w[1:]})
		case strings.HasPrefix(w, ">>") && len(w) > 2:
			cmd.Redirects = append(cmd.Redirects, Redirect{Kind: RedirectAppend, Target: w[2:]})
		case strings.HasPrefix(w, ">") && len(w) > 1:
			cmd.Redirects = append(cmd.Redirects, Redirect{Kind: RedirectOutput, Target: w[1:]})
		default:
			for _, expanded := range expandBracesAndGlobs(w) {
				args = append(args, expanded)
			}
		}
	}

	if len(args) == 0 {
		return ParsedCommand{}, &ParseError{Input: seg, Msg: "empty command"}
	}
	cmd.Command = args[0]
	cmd.Args = args[1:]
	return cmd, nil
}

// expandSubstitutions resolves $VAR, ${VAR} and $(command) forms.
// Command substitution shells out through env.Run and trims all trailing
// newlines, matching POSIX $() semantics.
func expandSubstitutions(s string, env Environment) (string, error) {
	var out strings.Builder
	runes := []rune(s)
	i := 0
	for i < len(runes) {
		r := runes[i]
		if r == '$' && i+1 < len(runes) {
			switch {
			case runes[i+1] == '(':
				depth := 1
				j := i + 2
				for j < len(runes) && depth > 0 {
					if runes[j] == '(' {
						depth++
					} else if runes[j] == ')' {
						depth--
						if depth == 0 {
							break
						}
					}
					j++
				}
				if j >= len(runes) {
					return "", &ParseError{Input: s, Msg: "unterminated command substitution"}
				}
				inner := string(runes[i+2 : j])
				result, err := env.Run(inner)
				if err != nil {
					return "", err
				}
				out.WriteString(strings.TrimRight(result, "\n"))
				i = j + 1
				continue
			case runes[i+1] == '{':
				j := i + 2
				for j < len(runes) && runes[j] != '}' {
					j++
				}
				name := string(runes[i+2 : j])
				out.WriteString(env.Getenv(name))
				i = j + 1
				continue
			case isVarStart(runes[i+1]):
				j := i + 1
				for j < len(runes) && isVarRune(runes[j]) {
					j++
				}
				name := string(runes[i+1 : j])
				out.WriteString(env.Getenv(name))
				i = j
				continue
			}
		}
		out.WriteRune(r)
		i++
	}
	return out.String(), nil
}

func isVarStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isVarRune(r rune) bool {
	return isVarStart(r) || (r >= '0' && r <= '9')
}

// expandBracesAndGlobs expands a {a,b,c} or {1..3} brace expression into
// multiple words, then glob-expands each against the filesystem; a word
// with no matching path or no glob metacharacters is returned unchanged.
func expandBracesAndGlobs(word string) []string {
	var results []string
	for _, braced := range expandBraces(word) {
		results = append(results, expandGlob(braced)...)
	}
	return results
}

func expandBraces(word string) []string {
	start := strings.IndexByte(word, '{')
	if start < 0 {
		return []string{word}
	}
	depth := 1
	end := -1
	for i := start + 1; i < len(word); i++ {
		switch word[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				end = i
			}
		}
		if end >= 0 {
			break
		}
	}
	if end < 0 {
		return []string{word}
	}

	prefix, body, suffix := word[:start], word[start+1:end], word[end+1:]
	items := expandBraceBody(body)
	if items == nil {
		return []string{word}
	}

	var out []string
	for _, item := range items {
		for _, tail := range expandBraces(suffix) {
			out = append(out, prefix+item+tail)
		}
	}
	return out
}

func expandBraceBody(body string) []string {
	if lo, hi, step, ok := parseRange(body); ok {
		var items []string
		if step > 0 {
			for n := lo; n <= hi; n += step {
				items = append(items, strconv.Itoa(n))
			}
		} else {
			for n := lo; n >= hi; n += step {
				items = append(items, strconv.Itoa(n))
			}
		}
		return items
	}
	if !strings.Contains(body, ",") {
		return nil
	}
	return splitTopLevelComma(body)
}

// parseRange parses a brace range body: "n..m" (step defaults to 1, direction
// inferred from lo/hi) or "n..m..step" (explicit, possibly negative, step).
// A zero step or anything but 2-3 ".."-separated parts is not a range.
func parseRange(body string) (lo, hi, step int, ok bool) {
	parts := strings.Split(body, "..")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, 0, false
	}
	var err1, err2 error
	lo, err1 = strconv.Atoi(parts[0])
	hi, err2 = strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, 0, false
	}
	if len(parts) == 3 {
		s, err := strconv.Atoi(parts[2])
		if err != nil {
			return 0, 0, 0, false
		}
		step = s
	} else if hi < lo {
		step = -1
	} else {
		step = 1
	}
	if step == 0 {
		return 0, 0, 0, false
	}
	return lo, hi, step, true
}

func splitTopLevelComma(body string) []string {
	var out []string
	depth := 0
	var cur strings.Builder
	for _, r := range body {
		switch r {
		case '{':
			depth++
			cur.WriteRune(r)
		case '}':
			depth--
			cur.WriteRune(r)
		case ',':
			if depth == 0 {
				out = append(out, cur.String())
				cur.Reset()
				continue
			}
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	out = append(out, cur.String())
	return out
}

// expandGlob expands filesystem globs; words without glob metacharacters
// or with no matches pass through unchanged (the latter matches POSIX
// shells' nullglob-off default).
func expandGlob(word string) []string {
	if !strings.ContainsAny(word, "*?[") {
		return []string{word}
	}
	g, err := glob.Compile(word, '/')
	if err != nil {
		return []string{word}
	}
	dir := "."
	if idx := strings.LastIndexByte(word, '/'); idx >= 0 {
		dir = word[:idx]
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []string{word}
	}
	var matches []string
	for _, e := range entries {
		candidate := e.Name()
		full := candidate
		if dir != "." {
			full = dir + "/" + candidate
		}
		if g.Match(full) {
			matches = append(matches, full)
		}
	}
	if len(matches) == 0 {
		return []string{word}
	}
	return matches
}
