package search

import (
	"testing"

	"github.com/ppiankov/audiencepan/internal/audience"
)

var testCards = []audience.Card{
	{Title: "Gophers", Subreddit: "r/golang"},
	{Title: "Crabs", Subreddit: "r/rust"},
	{Title: "Ops People", Subreddit: "r/devops"},
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "title match", query: "goph", want: []string{"Gophers"}},
		{name: "subreddit match", query: "r/rust", want: []string{"Crabs"}},
		{name: "case insensitive", query: "OPS", want: []string{"Ops People"}},
		{name: "matches title or subreddit", query: "o", want: []string{"Gophers", "Ops People"}},
		{name: "no match", query: "python", want: nil},
		{name: "cleared query shows all", query: "", want: []string{"Gophers", "Crabs", "Ops People"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := Filter(testCards, tt.query)
			if len(matches) != len(testCards) {
				t.Fatalf("got %d matches, want one per card", len(matches))
			}
			visible := Visible(matches)
			if len(visible) != len(tt.want) {
				t.Fatalf("visible = %+v, want %v", visible, tt.want)
			}
			for i, c := range visible {
				if c.Title != tt.want[i] {
					t.Errorf("visible[%d] = %q, want %q", i, c.Title, tt.want[i])
				}
			}
		})
	}
}

func TestFilter_HiddenThenCleared(t *testing.T) {
	matches := Filter(testCards, "crab")
	if matches[0].Visible || !matches[1].Visible || matches[2].Visible {
		t.Fatalf("unexpected visibility: %+v", matches)
	}
	for _, m := range Filter(testCards, "") {
		if !m.Visible {
			t.Errorf("card %q hidden after clearing query", m.Card.Title)
		}
	}
}

func TestApplyFilterLink(t *testing.T) {
	tests := []struct {
		name    string
		current string
		href    string
		want    string
		wantErr bool
	}{
		{
			name:    "adds parameter",
			current: "http://app.test/audiences/saved",
			href:    "/audiences/saved?theme=tech",
			want:    "http://app.test/audiences/saved?theme=tech",
		},
		{
			name:    "keeps other parameters",
			current: "http://app.test/audiences/saved?search=go&theme=old",
			href:    "/audiences/saved?theme=science&topic=ignored",
			want:    "http://app.test/audiences/saved?search=go&theme=science",
		},
		{
			name:    "unescapes value",
			current: "http://app.test/x",
			href:    "?topic=machine+learning",
			want:    "http://app.test/x?topic=machine+learning",
		},
		{
			name:    "no query",
			current: "http://app.test/x",
			href:    "/audiences/saved",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyFilterLink(tt.current, tt.href)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
