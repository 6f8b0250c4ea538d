package thread

import (
	"encoding/json"
	"fmt"
	"reflect"
	"testing"

	"github.com/saxenaaman628/hobbyhub/internal/models"
)

func ptr(s string) *string { return &s }

func comment(id string, parent *string) models.Comment {
	return models.Comment{ID: id, PostID: "p1", Content: "c" + id, ParentID: parent}
}

// shape renders a forest as "id[child child]" for compact comparisons.
func shape(nodes []*models.Comment) string {
	out := ""
	for i, n := range nodes {
		if i > 0 {
			out += " "
		}
		out += n.ID
		if len(n.Replies) > 0 {
			out += "[" + shape(n.Replies) + "]"
		}
	}
	return out
}

func collectIDs(nodes []*models.Comment, into map[string]int) {
	for _, n := range nodes {
		into[n.ID]++
		collectIDs(n.Replies, into)
	}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		comments []models.Comment
		want     string
	}{
		{
			name:     "empty input",
			comments: nil,
			want:     "",
		},
		{
			name: "nested replies",
			comments: []models.Comment{
				comment("1", nil),
				comment("2", ptr("1")),
				comment("3", ptr("1")),
				comment("4", ptr("2")),
			},
			want: "1[2[4] 3]",
		},
		{
			name: "children before parents",
			comments: []models.Comment{
				comment("4", ptr("2")),
				comment("3", ptr("1")),
				comment("2", ptr("1")),
				comment("1", nil),
			},
			want: "1[3 2[4]]",
		},
		{
			name:     "orphan promoted to root",
			comments: []models.Comment{comment("1", ptr("99"))},
			want:     "1",
		},
		{
			name: "self reference treated as root",
			comments: []models.Comment{
				comment("1", ptr("1")),
				comment("2", ptr("1")),
			},
			want: "1[2]",
		},
		{
			name: "two node cycle broken at first comment",
			comments: []models.Comment{
				comment("a", ptr("b")),
				comment("b", ptr("a")),
				comment("c", ptr("b")),
			},
			want: "a[b[c]]",
		},
		{
			name: "multiple roots keep input order",
			comments: []models.Comment{
				comment("x", nil),
				comment("y", nil),
				comment("z", ptr("x")),
				comment("w", nil),
			},
			want: "x[z] y w",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(tt.comments)
			if got == nil {
				t.Fatal("Build returned nil, want empty slice")
			}
			if s := shape(got); s != tt.want {
				t.Errorf("Build() = %q, want %q", s, tt.want)
			}
		})
	}
}

func TestBuildKeepsEveryCommentOnce(t *testing.T) {
	var comments []models.Comment
	for i := 0; i < 200; i++ {
		var parent *string
		switch {
		case i%7 == 0:
			parent = nil
		case i%11 == 0:
			parent = ptr("missing")
		case i%13 == 0:
			parent = ptr(fmt.Sprint((i + 5) % 200)) // forward references, some cyclic
		default:
			parent = ptr(fmt.Sprint(i / 3))
		}
		comments = append(comments, comment(fmt.Sprint(i), parent))
	}

	roots := Build(comments)

	seen := make(map[string]int)
	collectIDs(roots, seen)
	if len(seen) != len(comments) {
		t.Fatalf("got %d distinct ids, want %d", len(seen), len(comments))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("comment %s appears %d times", id, n)
		}
	}

	if _, err := json.Marshal(roots); err != nil {
		t.Fatalf("forest must be acyclic and serializable: %v", err)
	}
}

func TestBuildParentsAndRoots(t *testing.T) {
	comments := []models.Comment{
		comment("1", nil),
		comment("2", ptr("1")),
		comment("3", nil),
		comment("4", ptr("3")),
		comment("5", ptr("1")),
	}
	roots := Build(comments)

	parentOf := make(map[string]string)
	var walk func(nodes []*models.Comment, parent string)
	walk = func(nodes []*models.Comment, parent string) {
		for _, n := range nodes {
			parentOf[n.ID] = parent
			walk(n.Replies, n.ID)
		}
	}
	walk(roots, "")

	for _, c := range comments {
		want := ""
		if c.ParentID != nil {
			want = *c.ParentID
		}
		if parentOf[c.ID] != want {
			t.Errorf("comment %s placed under %q, want %q", c.ID, parentOf[c.ID], want)
		}
	}
}

func TestBuildIsDeterministicAndPure(t *testing.T) {
	comments := []models.Comment{
		comment("1", nil),
		comment("2", ptr("1")),
		comment("3", ptr("2")),
	}
	before := make([]models.Comment, len(comments))
	copy(before, comments)

	first := Build(comments)
	second := Build(comments)
	if !reflect.DeepEqual(first, second) {
		t.Error("Build is not deterministic for the same input")
	}
	if !reflect.DeepEqual(before, comments) {
		t.Error("Build modified its input")
	}
}
