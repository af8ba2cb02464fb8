package util

import "testing"

func TestKeyLabel(t *testing.T) {
	cases := []struct {
		key  []byte
		want string
	}{
		{[]byte("TESTDATA00000000"), "TESTDATA00000000"},
		{[]byte{0x06, 0x0e, 0x2b, 0x34}, "060e2b34"},
		{[]byte("caf\xc3\xa9"), "636166c3a9"},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := KeyLabel(tc.key); got != tc.want {
			t.Fatalf("KeyLabel(%q) = %q want %q", tc.key, got, tc.want)
		}
	}
}

func TestStorageKey(t *testing.T) {
	if got := StorageKey("uas", "frame:42"); got != "klv:uas:frame:42" {
		t.Fatalf("got %q", got)
	}
}
