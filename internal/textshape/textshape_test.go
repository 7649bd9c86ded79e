package textshape

import "testing"

func TestNormalizeComposesCombiningMarks(t *testing.T) {
	decomposed := []rune{'e', '́'} // e + combining acute
	got := Normalize(decomposed)
	if len(got) != 1 || got[0] != 'é' {
		t.Fatalf("got %v, want single precomposed é", got)
	}
}

func TestSegmentKeepsCombiningMarkAttached(t *testing.T) {
	clusters := Segment([]rune("áb"))
	if len(clusters) != 2 {
		t.Fatalf("clusters = %+v", clusters)
	}
	if clusters[0].Base != 'a' || len(clusters[0].Combining) != 1 {
		t.Fatalf("cluster0 = %+v", clusters[0])
	}
	if clusters[1].Base != 'b' {
		t.Fatalf("cluster1 = %+v", clusters[1])
	}
}

func TestSegmentASCIIWidths(t *testing.T) {
	clusters := Segment([]rune("hi"))
	if len(clusters) != 2 || clusters[0].Width != 1 || clusters[1].Width != 1 {
		t.Fatalf("clusters = %+v", clusters)
	}
}

func TestClassifyRune(t *testing.T) {
	if ClassifyRune('a') != DirLTR {
		t.Fatal("expected LTR for ascii letter")
	}
	if ClassifyRune('א') != DirRTL { // Hebrew aleph
		t.Fatal("expected RTL for Hebrew letter")
	}
	if ClassifyRune(' ') != DirNeutral {
		t.Fatal("expected neutral for space")
	}
}

func TestReorderReversesRTLRun(t *testing.T) {
	clusters := []Cluster{
		{Base: 'a'},
		{Base: 'א'},
		{Base: 'ב'},
		{Base: 'b'},
	}
	out := Reorder(clusters)
	if out[0].Base != 'a' || out[3].Base != 'b' {
		t.Fatalf("LTR ends unchanged: %+v", out)
	}
	if out[1].Base != 'ב' || out[2].Base != 'א' {
		t.Fatalf("RTL run not reversed: %+v", out)
	}
}

func TestMirrorBrackets(t *testing.T) {
	if Mirror('(') != ')' || Mirror(')') != '(' {
		t.Fatal("bracket mirroring failed")
	}
	if Mirror('a') != 'a' {
		t.Fatal("non-mirrored rune should pass through")
	}
}
