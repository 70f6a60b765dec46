package shell

import (
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/kelpfork/sliptile/config"
	"github.com/kelpfork/sliptile/rules"
)

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"experiment -trials 200 -log /tmp/trials.yaml",
			&shellcmd{"experiment", nil,
				CmdOptions{"trials": {"200"}, "log": {"/tmp/trials.yaml"}}},
			nil},
		{"solve manhattan",
			&shellcmd{"solve", []string{"manhattan"}, CmdOptions{}},
			nil},
		{"SOLVE Manhattan",
			&shellcmd{"solve", []string{"Manhattan"}, CmdOptions{}},
			nil},
		{"set 1 2 3/4 0 5/7 8 6 ",
			&shellcmd{"set",
				[]string{"1", "2", "3/4", "0", "5/7", "8", "6"}, CmdOptions{}},
			nil},
		{"experiment -trials",
			nil, errWrongOptionSyntax},
		{"experiment -trials -threads 4",
			nil, errWrongOptionSyntax},
	}
	for _, c := range cases {
		cmd, err := extractFields(c.line)
		is.Equal(cmd, c.expCmd)
		is.Equal(err, c.expErr)
	}
}

func TestCmdOptions(t *testing.T) {
	is := is.New(t)

	cmd, err := extractFields("experiment -trials 200 -log out.yaml")
	is.NoErr(err)
	is.Equal(cmd.options.String("log"), "out.yaml")
	is.Equal(cmd.options.String("missing"), "")

	n, err := cmd.options.IntDefault("trials", 50)
	is.NoErr(err)
	is.Equal(n, 200)
	n, err = cmd.options.IntDefault("threads", 8)
	is.NoErr(err)
	is.Equal(n, 8)

	cmd, err = extractFields("experiment -trials many")
	is.NoErr(err)
	_, err = cmd.options.IntDefault("trials", 50)
	is.True(err != nil)
}

func TestBoardSummary(t *testing.T) {
	is := is.New(t)

	sc := &ShellController{}
	out := sc.boardSummary(rules.DefaultStart)
	is.True(strings.Contains(out, "manhattan 2, misplaced 2"))
	is.True(!strings.Contains(out, "goal position"))

	out = sc.boardSummary(rules.Goals()[0])
	is.True(strings.Contains(out, "manhattan 0, misplaced 0"))
	is.True(strings.Contains(out, "goal position"))
}

func TestCompleterDo(t *testing.T) {
	is := is.New(t)

	c := NewShellCompleter(&ShellController{})

	matches, length := c.Do([]rune("so"), 2)
	is.Equal(length, 2)
	is.Equal(matches, [][]rune{[]rune("lve")})

	matches, length = c.Do([]rune("solve "), 6)
	is.Equal(length, 0)
	is.Equal(len(matches), 3)
	is.Equal(string(matches[0]), "manhattan")

	matches, length = c.Do([]rune("experiment -t"), 13)
	is.Equal(length, 2)
	is.Equal(matches, [][]rune{[]rune("rials"), []rune("hreads")})

	matches, _ = c.Do([]rune(""), 0)
	is.Equal(len(matches), len(commandNames))
}

func TestCompleterReadsConfig(t *testing.T) {
	is := is.New(t)

	cfg := config.DefaultConfig()
	c := NewShellCompleter(&ShellController{cfg: cfg})

	// an option that expects a value completes to the configured value
	matches, length := c.Do([]rune("experiment -trials "), 19)
	is.Equal(length, 0)
	is.Equal(matches, [][]rune{[]rune("50")})

	cfg.Set("trials", 500)
	matches, _ = c.Do([]rune("experiment -trials "), 19)
	is.Equal(matches, [][]rune{[]rune("500")})

	// -log has no default value, so the option list comes back instead
	matches, _ = c.Do([]rune("experiment -log "), 16)
	is.Equal(len(matches), len(commandMetadata["experiment"].Options))

	cfg.Set("trial-log", "/tmp/trials.yaml")
	matches, _ = c.Do([]rune("experiment -log "), 16)
	is.Equal(matches, [][]rune{[]rune("/tmp/trials.yaml")})
}
