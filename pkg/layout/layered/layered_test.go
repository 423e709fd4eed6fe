package layered

import (
	"context"
	"errors"
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/matzehuels/jsontree/pkg/dag"
	"github.com/matzehuels/jsontree/pkg/jsonvalue"
	"github.com/matzehuels/jsontree/pkg/layout"
	"github.com/matzehuels/jsontree/pkg/tree"
)

const sampleDoc = `{"user":{"id":1,"name":"John Doe","address":{"city":"New York","country":"USA"}},"items":[{"name":"item1"},{"name":"item2"}]}`

func build(t testing.TB, doc string) *tree.Graph {
	t.Helper()
	v, err := jsonvalue.ParseString(doc)
	if err != nil {
		t.Fatal(err)
	}
	return tree.Build(v)
}

func TestLayoutSampleLR(t *testing.T) {
	g := build(t, sampleDoc)
	if err := New().Layout(context.Background(), g, layout.DefaultOptions()); err != nil {
		t.Fatal(err)
	}

	// Leaves take slots of 90 (60 + 30); ranks are 200 apart (140 + 60).
	want := map[string]tree.Position{
		"$":                      {X: -70, Y: 258.75 - 30},
		"$.user":                 {X: 130, Y: 112.5 - 30},
		"$.user.id":              {X: 330, Y: -30},
		"$.user.name":            {X: 330, Y: 60},
		"$.user.address":         {X: 330, Y: 225 - 30},
		"$.user.address.city":    {X: 530, Y: 150},
		"$.user.address.country": {X: 530, Y: 240},
		"$.items":                {X: 130, Y: 405 - 30},
		"$.items[0]":             {X: 330, Y: 330},
		"$.items[0].name":        {X: 530, Y: 330},
		"$.items[1]":             {X: 330, Y: 420},
		"$.items[1].name":        {X: 530, Y: 420},
	}
	for path, p := range want {
		n, ok := g.ByPath(path)
		if !ok {
			t.Fatalf("missing %s", path)
		}
		if n.Position != p {
			t.Errorf("%s at %+v, want %+v", path, n.Position, p)
		}
	}
	if err := layout.Check(g, layout.DefaultOptions()); err != nil {
		t.Errorf("Check: %v", err)
	}
}

func TestLayoutDirections(t *testing.T) {
	for _, dir := range []layout.Direction{layout.LeftRight, layout.TopBottom, layout.RightLeft, layout.BottomTop} {
		t.Run(string(dir), func(t *testing.T) {
			g := build(t, sampleDoc)
			opts := layout.DefaultOptions()
			opts.Direction = dir
			if err := New().Layout(context.Background(), g, opts); err != nil {
				t.Fatal(err)
			}
			if err := layout.Check(g, opts); err != nil {
				t.Errorf("Check: %v", err)
			}
		})
	}
}

func randomDoc(r *rand.Rand, depth int) jsonvalue.Value {
	if depth == 0 || r.IntN(3) == 0 {
		return jsonvalue.Number(strconv.Itoa(r.IntN(100)))
	}
	n := r.IntN(5)
	if r.IntN(2) == 0 {
		items := make([]jsonvalue.Value, n)
		for i := range items {
			items[i] = randomDoc(r, depth-1)
		}
		return jsonvalue.Array(items...)
	}
	members := make([]jsonvalue.Member, n)
	for i := range members {
		members[i] = jsonvalue.Member{Key: "k" + strconv.Itoa(i), Value: randomDoc(r, depth-1)}
	}
	return jsonvalue.Object(members...)
}

func TestLayoutValidityRandom(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	opts := layout.Options{NodeWidth: 100, NodeHeight: 40, NodeSep: 10, RankSep: 25}
	for i := 0; i < 100; i++ {
		g := tree.Build(randomDoc(r, 6))
		if err := New().Layout(context.Background(), g, opts); err != nil {
			t.Fatal(err)
		}
		if err := layout.Check(g, opts); err != nil {
			t.Fatalf("doc %d: %v", i, err)
		}
		assertNoOverlap(t, g, opts.WithDefaults())
	}
}

func assertNoOverlap(t *testing.T, g *tree.Graph, opts layout.Options) {
	t.Helper()
	seen := map[tree.Position]string{}
	for _, n := range g.Nodes {
		if other, dup := seen[n.Position]; dup {
			t.Fatalf("%s and %s share position %+v", n.ID, other, n.Position)
		}
		seen[n.Position] = n.ID
	}
	for i, a := range g.Nodes {
		for _, b := range g.Nodes[i+1:] {
			dx := max(a.Position.X-b.Position.X, b.Position.X-a.Position.X)
			dy := max(a.Position.Y-b.Position.Y, b.Position.Y-a.Position.Y)
			if dx < opts.NodeWidth && dy < opts.NodeHeight {
				t.Fatalf("%s and %s overlap", a.ID, b.ID)
			}
		}
	}
}

func TestLayoutEmptyAndSingle(t *testing.T) {
	if err := New().Layout(context.Background(), tree.Empty(), layout.Options{}); err != nil {
		t.Errorf("empty graph: %v", err)
	}
	g := build(t, `{}`)
	if err := New().Layout(context.Background(), g, layout.Options{}); err != nil {
		t.Fatal(err)
	}
	if p := g.Root().Position; p.X != -70 || p.Y != -30 {
		t.Errorf("single node at %+v, want {-70 -30}", p)
	}
}

func TestLayoutRejectsBadOptions(t *testing.T) {
	g := build(t, sampleDoc)
	before := g.Positions()
	err := New().Layout(context.Background(), g, layout.Options{Direction: "UP"})
	if err == nil {
		t.Fatal("expected error for bad direction")
	}
	for id, p := range g.Positions() {
		if before[id] != p {
			t.Fatalf("positions changed on error")
		}
	}
}

func TestLayoutCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := New().Layout(ctx, build(t, sampleDoc), layout.DefaultOptions())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestLayoutDeepDocument(t *testing.T) {
	v := jsonvalue.Number("1")
	for i := 0; i < 2000; i++ {
		v = jsonvalue.Array(v)
	}
	g := tree.Build(v)
	if err := New().Layout(context.Background(), g, layout.DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	if err := layout.Check(g, layout.DefaultOptions()); err != nil {
		t.Fatal(err)
	}
}

func TestBarycentricRemovesCrossing(t *testing.T) {
	g := dag.New()
	for _, n := range []dag.Node{{ID: "a"}, {ID: "b"}, {ID: "x", Row: 1}, {ID: "y", Row: 1}} {
		_ = g.AddNode(n)
	}
	_ = g.AddEdge(dag.Edge{From: "a", To: "y"})
	_ = g.AddEdge(dag.Edge{From: "b", To: "x"})

	orders := Barycentric{}.OrderRows(g)
	if got := dag.CountCrossings(g, orders); got != 0 {
		t.Errorf("crossings after ordering = %d, want 0 (orders %v)", got, orders)
	}
}

func TestBarycentricKeepsTreeOrder(t *testing.T) {
	g := build(t, sampleDoc)
	d, err := toDAG(g)
	if err != nil {
		t.Fatal(err)
	}
	dag.AssignLayers(d)
	orders := Barycentric{Passes: 8}.OrderRows(d)
	want := []string{"n3", "n4", "n5", "n9", "n11"}
	got := orders[2]
	if len(got) != len(want) {
		t.Fatalf("row 2 = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row 2 = %v, want %v", got, want)
		}
	}
}

func TestRegistered(t *testing.T) {
	eng, err := layout.New(Name)
	if err != nil {
		t.Fatal(err)
	}
	if eng.Name() != Name {
		t.Errorf("Name() = %q", eng.Name())
	}
}
