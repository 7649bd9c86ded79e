package clipboard

import "testing"

func TestNoOpReadWrite(t *testing.T) {
	var c Clipboard = NoOp{}

	if err := c.Write([]byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := c.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if data != nil {
		t.Fatalf("got %q, want nil (NoOp discards)", data)
	}
}
