package httpclient

import "testing"

func TestEncodeForm(t *testing.T) {
	cases := []struct {
		name string
		form map[string]string
		want string
	}{
		{name: "nil", form: nil, want: ""},
		{name: "pairs", form: map[string]string{"b": "2", "a": "1"}, want: "a=1&b=2"},
		{name: "escaped", form: map[string]string{"q": "a b&c=d"}, want: "q=a+b%26c%3Dd"},
		{name: "empty value", form: map[string]string{"k": ""}, want: "k="},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EncodeForm(tc.form); got != tc.want {
				t.Fatalf("EncodeForm = %q, want %q", got, tc.want)
			}
		})
	}
}
