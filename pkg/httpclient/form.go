package httpclient

import "net/url"

// EncodeForm serializes form as an application/x-www-form-urlencoded body:
// keys sorted, keys and values escaped, pairs joined by "&" with no leading
// separator. An empty or nil form encodes to "".
func EncodeForm(form map[string]string) string {
	if len(form) == 0 {
		return ""
	}
	values := make(url.Values, len(form))
	for k, v := range form {
		values.Set(k, v)
	}
	return values.Encode()
}
