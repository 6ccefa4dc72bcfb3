package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/lifeinfocus/focus/internal/models"
	"github.com/lifeinfocus/focus/internal/testutil"
)

func TestCommandNames(t *testing.T) {
	var names []string

	for _, cmd := range Get().Commands {
		names = append(names, cmd.Name)
	}

	assert.Equal(t, []string{
		"tasks",
		"summary",
		"add",
		"edit",
		"delete",
		"status",
		"serve",
		"token",
		"edit-config",
	}, names)
}

func TestHelpText(t *testing.T) {
	text := helpText()

	for _, section := range []string{
		"DESCRIPTION",
		"USAGE",
		"COMMANDS",
		"OPTIONS",
		"ENVIRONMENTAL VARIABLES",
	} {
		assert.Contains(t, text, section)
	}

	assert.Contains(t, text, "FOCUS_JWT_SECRET")
}

func TestSessionUpdate(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want models.SessionUpdate
	}{
		{
			name: "nothing set",
			args: []string{"edit"},
		},
		{
			name: "task only",
			args: []string{"edit", "--task", "write docs"},
			want: models.SessionUpdate{TaskName: testutil.Ptr("write docs")},
		},
		{
			name: "task and time",
			args: []string{"edit", "-t", "review", "--time", "1h10m"},
			want: models.SessionUpdate{
				TaskName:      testutil.Ptr("review"),
				SecondsWorked: testutil.Ptr(4200),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got models.SessionUpdate

			a := &cli.App{
				Name:  "edit",
				Flags: []cli.Flag{taskFlag, timeFlag},
				Action: func(ctx *cli.Context) error {
					got = sessionUpdate(ctx)
					return nil
				},
			}

			require.NoError(t, a.Run(tc.args))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFirstNonEmptyString(t *testing.T) {
	assert.Equal(t, "vim", firstNonEmptyString("", "vim", "nano"))
	assert.Empty(t, firstNonEmptyString("", ""))
}
