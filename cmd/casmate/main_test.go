package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyellow/casmate/internal/bot"
	"github.com/garyellow/casmate/internal/catalog"
	"github.com/garyellow/casmate/internal/catalog/catalogtest"
	"github.com/garyellow/casmate/internal/engine"
)

func init() {
	color.NoColor = true
}

func testEngine(t *testing.T, d catalog.Data) *engine.Engine {
	t.Helper()
	e, err := engine.Build(d, engine.DefaultOptions())
	require.NoError(t, err)
	return e
}

func TestRenderExplain(t *testing.T) {
	var buf bytes.Buffer
	renderExplain(&buf, testEngine(t, catalogtest.Data()), "What are the prerequisites for CC 123?")

	out := buf.String()
	assert.Contains(t, out, "prerequisites")
	assert.Contains(t, out, "CC 123")
	assert.Contains(t, out, "via code")
}

func TestRenderVerify(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		var buf bytes.Buffer
		n := renderVerify(&buf, testEngine(t, catalogtest.Data()))
		assert.Zero(t, n)
		assert.Contains(t, buf.String(), "No integrity issues found.")
	})

	t.Run("dangling prerequisite", func(t *testing.T) {
		var buf bytes.Buffer
		d := catalogtest.Data()
		d.Prerequisites = append(d.Prerequisites, catalog.PrereqEdge{CourseID: "CC 123", PrereqID: "GHOST 999"})
		n := renderVerify(&buf, testEngine(t, d))
		assert.Positive(t, n)
		assert.Contains(t, buf.String(), string(catalog.IssueDanglingPrereq))
		assert.Contains(t, buf.String(), "GHOST 999")
	})
}

func TestPrintReply(t *testing.T) {
	var buf bytes.Buffer
	printReply(&buf, bot.Reply{Text: "Hello", FollowUp: bot.FollowUpText})
	assert.Equal(t, "Hello\n"+bot.FollowUpText+"\n", buf.String())
}

func TestCommandTree(t *testing.T) {
	for _, name := range []string{"ask", "chat", "verify", "export", "version"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	assert.Contains(t, buf.String(), "casmate ")
}
