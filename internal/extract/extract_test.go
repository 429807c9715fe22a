package extract

import (
	"strings"
	"testing"
)

func TestBetweenMarkers(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		begin  string
		end    string
		want   string
		wantOK bool
	}{
		{
			name:   "both markers present",
			text:   "noise before\n<<A>>\n  the payload  \n<<B>>\nnoise after",
			begin:  "<<A>>",
			end:    "<<B>>",
			want:   "the payload",
			wantOK: true,
		},
		{
			name:   "missing begin",
			text:   "payload\n<<B>>",
			begin:  "<<A>>",
			end:    "<<B>>",
			wantOK: false,
		},
		{
			name:   "missing end",
			text:   "<<A>>\npayload",
			begin:  "<<A>>",
			end:    "<<B>>",
			wantOK: false,
		},
		{
			name:   "end before begin is not a match",
			text:   "<<B>>\npayload\n<<A>>",
			begin:  "<<A>>",
			end:    "<<B>>",
			wantOK: false,
		},
		{
			name:   "first begin wins",
			text:   "<<A>>first<<B>> <<A>>second<<B>>",
			begin:  "<<A>>",
			end:    "<<B>>",
			want:   "first",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BetweenMarkers(tt.text, tt.begin, tt.end)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSection_SentinelMarkers(t *testing.T) {
	text := "preamble\n" +
		BeginMarker("Detailed Solution") + "\nproof body\n" +
		EndMarker("Detailed Solution") + "\ntrailing chatter"

	got := Section(text, "Detailed Solution")
	if got != "proof body" {
		t.Errorf("got %q, want %q", got, "proof body")
	}
}

func TestSection_HeaderFallback(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "markdown heading",
			text: "intro\n### Detailed Solution\nline one\nline two",
			want: "line one\nline two",
		},
		{
			name: "numbered heading with colon",
			text: "intro\n2. Detailed Solution:\nbody",
			want: "body",
		},
		{
			name: "bulleted mixed-case heading",
			text: "intro\n* DETAILED SOLUTION *\nbody",
			want: "body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Section(tt.text, "Detailed Solution")
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSection_KeywordFallback(t *testing.T) {
	// Section name mid-sentence, so the header pattern cannot match.
	text := "We now give the detailed solution as promised:\neverything after the newline\nstays"
	got := Section(text, "Detailed Solution")
	want := "everything after the newline\nstays"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSection_WholeTextFallback(t *testing.T) {
	text := "  no recognizable structure at all  "
	got := Section(text, "Detailed Solution")
	if got != "no recognizable structure at all" {
		t.Errorf("got %q", got)
	}
}

func TestSection_DuplicatedHeaders(t *testing.T) {
	// The first matching header wins; the duplicate stays in the tail.
	text := "### Verification Log\nfirst body\n### Verification Log\nsecond body"
	got := Section(text, "Verification Log")
	if !strings.HasPrefix(got, "first body") {
		t.Errorf("expected extraction from the first header, got %q", got)
	}
	if !strings.Contains(got, "second body") {
		t.Errorf("expected the tail to be preserved, got %q", got)
	}
}

func TestSection_MarkersBeatHeaders(t *testing.T) {
	text := "### Detailed Solution\ndecoy\n" +
		BeginMarker("Detailed Solution") + "\nreal\n" + EndMarker("Detailed Solution")
	if got := Section(text, "Detailed Solution"); got != "real" {
		t.Errorf("sentinel markers should take precedence, got %q", got)
	}
}
