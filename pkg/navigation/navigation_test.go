package navigation

import (
	"testing"

	"github.com/gonewx/timeline/pkg/cards"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "空格转连字符", key: "Moon Landing", want: "moon-landing"},
		{name: "右单引号删除", key: "Galileo’s Telescope", want: "galileos-telescope"},
		{name: "短破折号", key: "Human Genome – Complete", want: "human-genome---complete"},
		{name: "标点删除", key: "What? (Really!)", want: "what-really"},
		{name: "下划线保留", key: "snake_case Title", want: "snake_case-title"},
		{name: "非ASCII字母删除", key: "Café Über", want: "caf-ber"},
		{name: "数字保留", key: "Apollo 11", want: "apollo-11"},
		{name: "空字符串", key: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slug(tt.key); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestDestination(t *testing.T) {
	if got := Destination("The World Wide Web"); got != "contents/the-world-wide-web.html" {
		t.Errorf("Destination() = %q", got)
	}
}

func TestShareURL(t *testing.T) {
	if got := ShareURL("", "contents/a.html"); got != "contents/a.html" {
		t.Errorf("ShareURL with empty base = %q", got)
	}
	if got := ShareURL("https://timeline.local/", "contents/a.html"); got != "https://timeline.local/contents/a.html" {
		t.Errorf("ShareURL() = %q", got)
	}
}

func TestNavigatorFunc(t *testing.T) {
	var got string
	var nav Navigator = NavigatorFunc(func(destination string, card cards.Card) {
		got = destination + "|" + card.Title
	})
	nav.Navigate("contents/x.html", cards.Card{Title: "X"})
	if got != "contents/x.html|X" {
		t.Errorf("NavigatorFunc forwarded %q", got)
	}
}
