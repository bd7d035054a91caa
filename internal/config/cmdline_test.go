package config

import (
	"reflect"
	"testing"
)

func TestSplitCommandLine(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"single", "worker.exe", []string{"worker.exe"}},
		{"multiple args", "worker.exe --port 8080", []string{"worker.exe", "--port", "8080"}},
		{"quoted token", `worker.exe "--name=my service"`, []string{"worker.exe", "--name=my service"}},
		{"collapses runs of spaces", "a   b\t\tc", []string{"a", "b", "c"}},
		{"unterminated quote runs to end", `a "b c`, []string{"a", "b c"}},
		{"quotes mid-token keep the space", `a"b c"d`, []string{"ab cd"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitCommandLine(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("SplitCommandLine(%q) = %#v, want %#v", tc.in, got, tc.want)
			}
		})
	}
}

func TestCommandLineRoundTrip(t *testing.T) {
	cases := [][]string{
		{"worker.exe"},
		{"worker.exe", "--port", "8080"},
		{"worker.exe", "--name=my service", "--tag", "a b c"},
	}
	for _, args := range cases {
		joined := JoinCommandLine(args)
		got := SplitCommandLine(joined)
		if !reflect.DeepEqual(got, args) {
			t.Fatalf("round trip of %#v through %q produced %#v", args, joined, got)
		}
	}
}
