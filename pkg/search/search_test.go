package search

import (
	"context"
	"strings"
	"testing"

	apperrors "github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/jsonvalue"
	"github.com/matzehuels/jsontree/pkg/layout"
	"github.com/matzehuels/jsontree/pkg/layout/layered"
	"github.com/matzehuels/jsontree/pkg/tree"
)

const sampleDoc = `{"user":{"id":1,"name":"John Doe","address":{"city":"New York","country":"USA"}},"items":[{"name":"item1"},{"name":"item2"}]}`

func laidOut(t *testing.T) *tree.Graph {
	t.Helper()
	v, err := jsonvalue.ParseString(sampleDoc)
	if err != nil {
		t.Fatal(err)
	}
	g := tree.Build(v)
	if err := layered.New().Layout(context.Background(), g, layout.DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestFind(t *testing.T) {
	g := laidOut(t)

	tests := []struct {
		name     string
		query    string
		wantID   string
		wantCode apperrors.Code
		wantMsg  string
	}{
		{"nested member", "$.user.address.city", "n6", "", ""},
		{"array element member", "$.items[0].name", "n10", "", ""},
		{"root", "$", "n1", "", ""},
		{"trimmed", "  $.items  ", "n8", "", ""},
		{"missing", "$.nope", "", apperrors.ErrCodeNoMatch, "no node at $.nope"},
		{"partial", "$.user.addr", "", apperrors.ErrCodeNoMatch, ""},
		{"malformed", "user.name", "", apperrors.ErrCodeNoMatch, "not a valid path"},
		{"empty", "", "", apperrors.ErrCodeEmptyQuery, ""},
		{"blank", " \t ", "", apperrors.ErrCodeEmptyQuery, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Find(g, tt.query)
			if tt.wantCode != "" {
				if !apperrors.Is(err, tt.wantCode) {
					t.Fatalf("Find(%q) error = %v, want code %s", tt.query, err, tt.wantCode)
				}
				if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
					t.Errorf("error %q missing %q", err, tt.wantMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("Find(%q): %v", tt.query, err)
			}
			if n.ID != tt.wantID {
				t.Errorf("Find(%q) = %s, want %s", tt.query, n.ID, tt.wantID)
			}
		})
	}
}

func TestFindEmptyGraph(t *testing.T) {
	if _, err := Find(tree.Empty(), "$"); !apperrors.Is(err, apperrors.ErrCodeNoMatch) {
		t.Errorf("got %v", err)
	}
	if _, err := Find(nil, "$"); !apperrors.Is(err, apperrors.ErrCodeNoMatch) {
		t.Errorf("nil graph: got %v", err)
	}
}

func TestRunHighlightsAndFocuses(t *testing.T) {
	g := laidOut(t)
	before := g.Positions()

	res, err := Run(g, "$.user.address.city", layout.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	n := res.Node
	if n.State != tree.StateHighlighted {
		t.Errorf("match state = %s", n.State)
	}
	for _, other := range g.Nodes {
		if other != n && other.State != tree.StateDimmed {
			t.Errorf("%s state = %s, want dimmed", other.ID, other.State)
		}
	}
	if res.Focus.X != n.Position.X+70 || res.Focus.Y != n.Position.Y+30 {
		t.Errorf("focus = %+v for node at %+v", res.Focus, n.Position)
	}
	for id, p := range g.Positions() {
		if before[id] != p {
			t.Fatalf("search moved %s", id)
		}
	}

	Reset(g)
	for _, other := range g.Nodes {
		if other.State != tree.StateNormal {
			t.Fatalf("%s not reset", other.ID)
		}
	}
}

func TestRunNoMatchLeavesGraph(t *testing.T) {
	g := laidOut(t)
	if _, err := Run(g, "$.user", layout.DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	states := map[string]tree.State{}
	for _, n := range g.Nodes {
		states[n.ID] = n.State
	}
	before := g.Positions()

	if _, err := Run(g, "$.nope", layout.DefaultOptions()); err == nil {
		t.Fatal("expected no match")
	}
	for _, n := range g.Nodes {
		if n.State != states[n.ID] {
			t.Errorf("%s state changed to %s", n.ID, n.State)
		}
		if n.Position != before[n.ID] {
			t.Errorf("%s moved", n.ID)
		}
	}
}

func TestHighlightUnknown(t *testing.T) {
	g := laidOut(t)
	if Highlight(g, "n999") {
		t.Error("Highlight of unknown id reported success")
	}
	for _, n := range g.Nodes {
		if n.State != tree.StateNormal {
			t.Fatalf("%s state = %s", n.ID, n.State)
		}
	}
}
