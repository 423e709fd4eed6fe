package tree

import (
	"errors"
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"

	"github.com/matzehuels/jsontree/pkg/jsonvalue"
)

const sampleDoc = `{"user":{"id":1,"name":"John Doe","address":{"city":"New York","country":"USA"}},"items":[{"name":"item1"},{"name":"item2"}]}`

func mustParse(t testing.TB, s string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.ParseString(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return v
}

func TestBuildSample(t *testing.T) {
	g := Build(mustParse(t, sampleDoc))

	if g.Len() != 12 {
		t.Fatalf("nodes = %d, want 12", g.Len())
	}
	if len(g.Edges) != 11 {
		t.Fatalf("edges = %d, want 11", len(g.Edges))
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	want := []struct {
		id, path, label string
		kind            Kind
	}{
		{"n1", "$", "root", KindObject},
		{"n2", "$.user", "user", KindObject},
		{"n3", "$.user.id", "id: 1", KindPrimitive},
		{"n4", "$.user.name", `name: "John Doe"`, KindPrimitive},
		{"n5", "$.user.address", "address", KindObject},
		{"n6", "$.user.address.city", `city: "New York"`, KindPrimitive},
		{"n7", "$.user.address.country", `country: "USA"`, KindPrimitive},
		{"n8", "$.items", "items", KindArray},
		{"n9", "$.items[0]", "items", KindObject},
		{"n10", "$.items[0].name", `name: "item1"`, KindPrimitive},
		{"n11", "$.items[1]", "items", KindObject},
		{"n12", "$.items[1].name", `name: "item2"`, KindPrimitive},
	}
	for i, w := range want {
		n := g.Nodes[i]
		if n.ID != w.id || n.Path != w.path || n.Label != w.label || n.Kind != w.kind {
			t.Errorf("node %d = {%s %s %q %s}, want {%s %s %q %s}",
				i, n.ID, n.Path, n.Label, n.Kind, w.id, w.path, w.label, w.kind)
		}
		if n.State != StateNormal {
			t.Errorf("node %s state = %s, want normal", n.ID, n.State)
		}
	}

	if g.Edges[0].ID != "en1-n2" || g.Edges[0].Source != "n1" || g.Edges[0].Target != "n2" {
		t.Errorf("first edge = %+v", g.Edges[0])
	}
	if got := strings.Join(g.Children("n8"), ","); got != "n9,n11" {
		t.Errorf("children of items = %s", got)
	}
	if g.Parent("n10") != "n9" || g.Parent("n1") != "" {
		t.Error("parent lookup broken")
	}
	if g.Depth("n6") != 3 {
		t.Errorf("Depth(n6) = %d, want 3", g.Depth("n6"))
	}
}

func TestBuildPrimitivesAndEmpties(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNodes int
		wantRoot  string
		wantKind  Kind
	}{
		{"empty object", `{}`, 1, "root", KindObject},
		{"empty array", `[]`, 1, "root", KindArray},
		{"number root", `42`, 1, "root: 42", KindPrimitive},
		{"string root", `"hi"`, 1, `root: "hi"`, KindPrimitive},
		{"null root", `null`, 1, "root: null", KindPrimitive},
		{"nested empties", `{"a":{},"b":[]}`, 3, "root", KindObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Build(mustParse(t, tt.input))
			if g.Len() != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", g.Len(), tt.wantNodes)
			}
			if g.Root().Label != tt.wantRoot || g.Root().Kind != tt.wantKind {
				t.Errorf("root = %q %s, want %q %s", g.Root().Label, g.Root().Kind, tt.wantRoot, tt.wantKind)
			}
			if err := g.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestBuildArrayRoot(t *testing.T) {
	g := Build(mustParse(t, `[[1],true]`))
	got := make([]string, 0, g.Len())
	for _, n := range g.Nodes {
		got = append(got, n.Path+"="+n.Label)
	}
	want := "$=root $[0]=$ $[0][0]=$: 1 $[1]=$: true"
	if strings.Join(got, " ") != want {
		t.Errorf("got  %s\nwant %s", strings.Join(got, " "), want)
	}
}

func TestByPathKeepsFirstOfCollidingPaths(t *testing.T) {
	g := Build(mustParse(t, `{"a.b":1,"a":{"b":2}}`))
	if g.Len() != 4 || g.Nodes[1].Path != "$.a.b" || g.Nodes[3].Path != "$.a.b" {
		t.Fatalf("unexpected nodes: %d", g.Len())
	}
	n, ok := g.ByPath("$.a.b")
	if !ok {
		t.Fatal("ByPath($.a.b) found nothing")
	}
	if n != g.Nodes[1] {
		t.Errorf("ByPath($.a.b) = %s, want first node in document order %s", n.ID, g.Nodes[1].ID)
	}
	if c := g.Clone(); mustByPath(t, c, "$.a.b").ID != g.Nodes[1].ID {
		t.Error("clone resolves the colliding path to a later node")
	}
}

func mustByPath(t *testing.T, g *Graph, path string) *Node {
	t.Helper()
	n, ok := g.ByPath(path)
	if !ok {
		t.Fatalf("ByPath(%s) found nothing", path)
	}
	return n
}

func TestBuildIdsRestartPerCall(t *testing.T) {
	v := mustParse(t, sampleDoc)
	a, b := Build(v), Build(v)
	if a.Len() != b.Len() || len(a.Edges) != len(b.Edges) {
		t.Fatal("counts differ between builds")
	}
	for i := range a.Nodes {
		if a.Nodes[i].ID != b.Nodes[i].ID || a.Nodes[i].Path != b.Nodes[i].Path {
			t.Fatalf("node %d differs: %s/%s vs %s/%s", i, a.Nodes[i].ID, a.Nodes[i].Path, b.Nodes[i].ID, b.Nodes[i].Path)
		}
	}
	for i := range a.Edges {
		if a.Edges[i] != b.Edges[i] {
			t.Fatalf("edge %d differs", i)
		}
	}
}

// randomValue returns a pseudo-random document of bounded depth.
func randomValue(r *rand.Rand, depth int) jsonvalue.Value {
	k := r.IntN(6)
	if depth <= 0 {
		k %= 4
	}
	switch k {
	case 0:
		return jsonvalue.Null()
	case 1:
		return jsonvalue.Bool(r.IntN(2) == 0)
	case 2:
		return jsonvalue.Number(strconv.Itoa(r.IntN(2000) - 1000))
	case 3:
		return jsonvalue.String("s<" + strconv.Itoa(r.IntN(50)) + ">\"")
	case 4:
		items := make([]jsonvalue.Value, r.IntN(4))
		for i := range items {
			items[i] = randomValue(r, depth-1)
		}
		return jsonvalue.Array(items...)
	default:
		members := make([]jsonvalue.Member, r.IntN(4))
		for i := range members {
			members[i] = jsonvalue.Member{Key: "k" + strconv.Itoa(i), Value: randomValue(r, depth-1)}
		}
		return jsonvalue.Object(members...)
	}
}

func TestBuildProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		v := randomValue(r, 5)
		g := Build(v)

		if g.Len() != v.Count() {
			t.Fatalf("doc %s: nodes = %d, want %d", v.Literal(), g.Len(), v.Count())
		}
		if err := g.Validate(); err != nil {
			t.Fatalf("doc %s: %v", v.Literal(), err)
		}

		for _, n := range g.Nodes {
			if n.Kind != KindPrimitive {
				continue
			}
			_, lit, ok := strings.Cut(n.Label, ": ")
			if !ok {
				t.Fatalf("primitive label %q has no literal", n.Label)
			}
			back, err := jsonvalue.ParseString(lit)
			if err != nil {
				t.Fatalf("label literal %q does not parse: %v", lit, err)
			}
			if !back.Equal(n.Value) {
				t.Fatalf("label literal %q != value %s", lit, n.Value.Literal())
			}
		}
	}
}

func TestValidateRejects(t *testing.T) {
	node := func(id, path string) *Node { return &Node{ID: id, Path: path} }
	edge := func(s, d string) Edge { return Edge{ID: EdgeID(s, d), Source: s, Target: d} }

	tests := []struct {
		name  string
		nodes []*Node
		edges []Edge
		want  error
	}{
		{"no root", []*Node{node("n1", "$.a")}, nil, ErrNoRoot},
		{"duplicate id", []*Node{node("n1", "$"), node("n1", "$.a")}, []Edge{edge("n1", "n1")}, ErrDuplicateID},
		{"duplicate path", []*Node{node("n1", "$"), node("n2", "$")}, []Edge{edge("n1", "n2")}, ErrDuplicatePath},
		{"edge count", []*Node{node("n1", "$"), node("n2", "$.a")}, nil, ErrEdgeCount},
		{"dangling", []*Node{node("n1", "$"), node("n2", "$.a")}, []Edge{edge("n1", "n9")}, ErrDanglingEdge},
		{"root has parent", []*Node{node("n1", "$"), node("n2", "$.a")}, []Edge{edge("n2", "n1")}, ErrMultipleParents},
		{
			"two parents",
			[]*Node{node("n1", "$"), node("n2", "$.a"), node("n3", "$.b")},
			[]Edge{edge("n1", "n3"), edge("n2", "n3")},
			ErrMultipleParents,
		},
		{
			"cycle off the root",
			[]*Node{node("n1", "$"), node("n2", "$.a"), node("n3", "$.b")},
			[]Edge{edge("n2", "n3"), edge("n3", "n2")},
			ErrDisconnected,
		},
		{
			"unreachable",
			[]*Node{node("n1", "$"), node("n2", "$.a"), node("n3", "$.b"), node("n4", "$.c")},
			[]Edge{edge("n1", "n2"), edge("n3", "n4"), edge("n4", "n3")},
			ErrDisconnected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.nodes, tt.edges).Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPositionsRoundTrip(t *testing.T) {
	g := Build(mustParse(t, `{"a":1,"b":2}`))
	for i, n := range g.Nodes {
		n.Position = Position{X: float64(i) * 10, Y: float64(i)}
	}
	saved := g.Positions()

	fresh := Build(mustParse(t, `{"a":1,"b":2}`))
	if err := fresh.ApplyPositions(saved); err != nil {
		t.Fatal(err)
	}
	for i := range g.Nodes {
		if fresh.Nodes[i].Position != g.Nodes[i].Position {
			t.Errorf("node %d position not restored", i)
		}
	}

	delete(saved, "n1")
	if err := fresh.ApplyPositions(saved); err == nil {
		t.Error("expected error for incomplete position set")
	}

	minX, minY, maxX, maxY := g.Bounds(140, 60)
	if minX != 0 || minY != 0 || maxX != 160 || maxY != 62 {
		t.Errorf("Bounds = %v %v %v %v", minX, minY, maxX, maxY)
	}
}

func TestClone(t *testing.T) {
	g := Build(mustParse(t, sampleDoc))
	c := g.Clone()
	c.Nodes[0].State = StateHighlighted
	c.Nodes[1].Position = Position{X: 99}
	if g.Nodes[0].State != StateNormal {
		t.Errorf("clone shares node state: %q", g.Nodes[0].State)
	}
	if g.Nodes[1].Position.X == 99 {
		t.Error("clone shares node position")
	}
	if err := c.Validate(); err != nil {
		t.Errorf("clone invalid: %v", err)
	}
	if n, ok := c.ByPath("$.user.name"); !ok || n == g.Nodes[4] {
		t.Error("clone index does not point at copied nodes")
	}
	if !(*Graph)(nil).Clone().IsEmpty() {
		t.Error("nil Clone should be empty")
	}
}
