package shell

import (
	"testing"

	"github.com/google/shlex"
)

type fakeEnv map[string]string

func (f fakeEnv) Getenv(name string) string { return f[name] }
func (f fakeEnv) Run(command string) (string, error) { return "sub", nil }

func TestParseSimpleCommand(t *testing.T) {
	p, err := Parse("ls -la /tmp", fakeEnv{})
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Commands) != 1 {
		t.Fatalf("commands = %+v", p.Commands)
	}
	c := p.Commands[0]
	if c.Command != "ls" || len(c.Args) != 2 || c.Args[0] != "-la" || c.Args[1] != "/tmp" {
		t.Fatalf("cmd = %+v", c)
	}
}

func TestParseQuoting(t *testing.T) {
	p, err := Parse(`echo "hello world" 'a b'`, fakeEnv{})
	if err != nil {
		t.Fatal(err)
	}
	c := p.Commands[0]
	if len(c.Args) != 2 || c.Args[0] != "hello world" || c.Args[1] != "a b" {
		t.Fatalf("args = %+v", c.Args)
	}
}

// TestTokenizerMatchesReferenceShlexSplit cross-validates our quoting rules
// against google/shlex's reference tokenizer for inputs with no pipeline,
// redirection, or substitution — just quoting and word splitting, the part
// of the grammar shlex also understands.
func TestTokenizerMatchesReferenceShlexSplit(t *testing.T) {
	cases := []string{
		`ls -la /tmp`,
		`echo "hello world" 'a b'`,
		`grep -n "foo bar" file.txt`,
	}
	for _, in := range cases {
		want, err := shlex.Split(in)
		if err != nil {
			t.Fatalf("shlex.Split(%q): %v", in, err)
		}
		p, err := Parse(in, fakeEnv{})
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		c := p.Commands[0]
		got := append([]string{c.Command}, c.Args...)
		if len(got) != len(want) {
			t.Fatalf("%q: got %v, want %v", in, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("%q: token %d got %q, want %q", in, i, got[i], want[i])
			}
		}
	}
}

func TestParsePipeline(t *testing.T) {
	p, err := Parse("cat file.txt | grep foo | wc -l", fakeEnv{})
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Commands) != 3 || len(p.Operators) != 2 {
		t.Fatalf("p = %+v", p)
	}
	if p.Operators[0] != OpPipe || p.Operators[1] != OpPipe {
		t.Fatalf("operators = %+v", p.Operators)
	}
}

func TestParseAndOrSequential(t *testing.T) {
	p, err := Parse("make && make test || echo fail ; echo done", fakeEnv{})
	if err != nil {
		t.Fatal(err)
	}
	want := []ChainOperator{OpAnd, OpOr, OpSequential}
	if len(p.Operators) != len(want) {
		t.Fatalf("operators = %+v", p.Operators)
	}
	for i, op := range want {
		if p.Operators[i] != op {
			t.Fatalf("operator[%d] = %v, want %v", i, p.Operators[i], op)
		}
	}
}

func TestParseRedirection(t *testing.T) {
	p, err := Parse("sort < in.txt > out.txt", fakeEnv{})
	if err != nil {
		t.Fatal(err)
	}
	c := p.Commands[0]
	if len(c.Redirects) != 2 {
		t.Fatalf("redirects = %+v", c.Redirects)
	}
	if c.Redirects[0].Kind != RedirectInput || c.Redirects[0].Target != "in.txt" {
		t.Fatalf("redirect0 = %+v", c.Redirects[0])
	}
	if c.Redirects[1].Kind != RedirectOutput || c.Redirects[1].Target != "out.txt" {
		t.Fatalf("redirect1 = %+v", c.Redirects[1])
	}
}

func TestParseAppendRedirection(t *testing.T) {
	p, err := Parse("echo hi >> log.txt", fakeEnv{})
	if err != nil {
		t.Fatal(err)
	}
	c := p.Commands[0]
	if len(c.Redirects) != 1 || c.Redirects[0].Kind != RedirectAppend || c.Redirects[0].Target != "log.txt" {
		t.Fatalf("redirects = %+v", c.Redirects)
	}
}

func TestParseBackground(t *testing.T) {
	p, err := Parse("sleep 10 &", fakeEnv{})
	if err != nil {
		t.Fatal(err)
	}
	if !p.Commands[0].Background {
		t.Fatalf("cmd = %+v", p.Commands[0])
	}
}

func TestParseEnvVarExpansion(t *testing.T) {
	env := fakeEnv{"FOO": "bar"}
	p, err := Parse("echo $FOO ${FOO}baz", env)
	if err != nil {
		t.Fatal(err)
	}
	c := p.Commands[0]
	if len(c.Args) != 2 || c.Args[0] != "bar" || c.Args[1] != "barbaz" {
		t.Fatalf("args = %+v", c.Args)
	}
}

func TestParseCommandSubstitution(t *testing.T) {
	p, err := Parse("echo $(whatever)", fakeEnv{})
	if err != nil {
		t.Fatal(err)
	}
	c := p.Commands[0]
	if len(c.Args) != 1 || c.Args[0] != "sub" {
		t.Fatalf("args = %+v", c.Args)
	}
}

func TestExpandBracesList(t *testing.T) {
	got := expandBraces("file{1,2,3}.txt")
	want := []string{"file1.txt", "file2.txt", "file3.txt"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExpandBracesRange(t *testing.T) {
	got := expandBraces("item{1..3}")
	want := []string{"item1", "item2", "item3"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExpandBracesRangeWithStep(t *testing.T) {
	got := expandBraces("item{1..10..3}")
	want := []string{"item1", "item4", "item7", "item10"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExpandBracesRangeWithNegativeStep(t *testing.T) {
	got := expandBraces("item{10..1..-3}")
	want := []string{"item10", "item7", "item4", "item1"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExpandBracesRangeZeroStepPassesThrough(t *testing.T) {
	got := expandBraces("item{1..10..0}")
	if len(got) != 1 || got[0] != "item{1..10..0}" {
		t.Fatalf("got %v, want unexpanded literal", got)
	}
}

func TestParseEmptyCommandError(t *testing.T) {
	if _, err := Parse("   ", fakeEnv{}); err == nil {
		t.Fatal("expected error for empty command")
	}
}
