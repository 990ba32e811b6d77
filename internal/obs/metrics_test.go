package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                           "/",
		"/":                          "/",
		"/metrics":                   "/metrics",
		"/healthz":                   "/healthz",
		"/createAndAssignUser":       "/createAndAssignUser",
		"/deleteUser":                "/deleteUser",
		"/deleteUser?dry=1":          "/deleteUser",
		"/v1/info":                   "/v1/info",
		"/wp-admin/setup-config.php": "other",
		"/createAndAssignUser/extra": "other",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
