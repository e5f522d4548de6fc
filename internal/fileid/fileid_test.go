package fileid

import (
	"strings"
	"testing"
)

func TestFileDocID(t *testing.T) {
	id1 := FileDocID("/foo/bar.txt")
	id2 := FileDocID("/foo/bar.txt")
	if id1 != id2 {
		t.Errorf("same path should give same ID: %q vs %q", id1, id2)
	}
	if !strings.HasPrefix(id1, prefix) {
		t.Errorf("ID should have prefix %q: got %q", prefix, id1)
	}
	if FileDocID("/foo/baz.txt") == id1 {
		t.Errorf("different paths should give different IDs: %q", id1)
	}
}

func TestFileDocID_normalized(t *testing.T) {
	id1 := FileDocID("/foo/bar")
	if id1 != FileDocID("/foo/bar/") {
		t.Error("paths differing only by trailing slash should match")
	}
	if id1 != FileDocID("/foo/./bar") {
		t.Error("paths with . should normalize")
	}
}

func TestPartDocID(t *testing.T) {
	if PartDocID("/a.pdf", 0) != FileDocID("/a.pdf") {
		t.Error("part 0 should equal the file ID")
	}
	p1, p2 := PartDocID("/a.pdf", 1), PartDocID("/a.pdf", 2)
	if p1 == p2 {
		t.Errorf("pages should differ: %q", p1)
	}
	if !strings.HasPrefix(p1, FileDocID("/a.pdf")) {
		t.Errorf("page ID should extend the file ID: %q", p1)
	}
}

func TestChunkID(t *testing.T) {
	if ChunkID("doc", 3) != "doc/3" {
		t.Errorf("ChunkID = %q", ChunkID("doc", 3))
	}
	if ChunkID("doc", 0) == ChunkID("doc", 1) {
		t.Error("chunk indexes should give different IDs")
	}
}
