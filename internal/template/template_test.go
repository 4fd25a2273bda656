package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    string
		ctx     *Context
		want    string
		wantErr bool
	}{
		{
			name: "question and response",
			tmpl: "<question>\n{{.Question}}\n</question>\n<response>\n{{.Response}}\n</response>",
			ctx:  &Context{Question: "What is escrow?", Response: "A neutral holding account."},
			want: "<question>\nWhat is escrow?\n</question>\n<response>\nA neutral holding account.\n</response>",
		},
		{
			name: "values are not re-parsed",
			tmpl: "{{.Response}}",
			ctx:  &Context{Response: "literal {{.Question}}"},
			want: "literal {{.Question}}",
		},
		{
			name: "mentor and run",
			tmpl: "{{.RunID}}/{{.MentorID}} at {{.Endpoint}}",
			ctx:  &Context{RunID: "r1", MentorID: "Texas", Endpoint: "https://tx"},
			want: "r1/Texas at https://tx",
		},
		{
			name: "user-defined Vars",
			tmpl: "Audience: {{.Vars.audience}}",
			ctx:  &Context{Vars: map[string]string{"audience": "first-time buyers"}},
			want: "Audience: first-time buyers",
		},
		{
			name: "no templates passthrough",
			tmpl: "plain string with no templates",
			ctx:  &Context{MentorID: "ignored"},
			want: "plain string with no templates",
		},
		{
			name: "empty string input",
			tmpl: "",
			ctx:  &Context{},
			want: "",
		},
		{
			name:    "missing field",
			tmpl:    "{{.NoSuchField}}",
			ctx:     &Context{},
			wantErr: true,
		},
		{
			name:    "missing Vars key",
			tmpl:    "{{.Vars.missing}}",
			ctx:     &Context{Vars: map[string]string{}},
			wantErr: true,
		},
		{
			name: "conditional",
			tmpl: `{{if eq .MentorID "Texas"}}TX{{else}}other{{end}}`,
			ctx:  &Context{MentorID: "Texas"},
			want: "TX",
		},
		{
			name:    "invalid template syntax",
			tmpl:    "bad {{.Unclosed",
			ctx:     &Context{},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Render(tc.tmpl, tc.ctx)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "template:")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate("{{.Question}}"))
	require.Error(t, Validate("{{.Question"))
}
