package attribution

import "testing"

func TestDeeplinkTag(t *testing.T) {
	cases := []struct {
		name      string
		link      string
		tag       string
		want      string
		wantFound bool
	}{
		{name: "blank link", link: "   \n ", tag: "utm_source"},
		{name: "no query no fragment", link: "https://batch.com/path", tag: "utm_source"},
		{name: "query match", link: "https://batch.com?a=1&utm_source=x", tag: "utm_source", want: "x", wantFound: true},
		{name: "first query match wins", link: "https://batch.com?utm_source=a&utm_source=b", tag: "utm_source", want: "a", wantFound: true},
		{name: "plus is literal", link: "https://batch.com?utm_source=a+b", tag: "utm_source", want: "a+b", wantFound: true},
		{name: "empty query value", link: "https://batch.com?utm_source=", tag: "utm_source", want: "", wantFound: true},
		{name: "valueless query item defers to fragment", link: "https://batch.com?utm_source#utm_source=frag", tag: "utm_source", want: "frag", wantFound: true},
		{name: "encoded query name", link: "https://batch.com?utm%5Fsource=x", tag: "utm_source", want: "x", wantFound: true},
		{name: "last fragment duplicate wins", link: "https://batch.com#utm_source=a&utm_source=b", tag: "utm_source", want: "b", wantFound: true},
		{name: "valueless fragment pair is its own value", link: "https://batch.com#utm_source", tag: "utm_source", want: "utm_source", wantFound: true},
		{name: "fragment splits on first equals", link: "https://batch.com#utm_source=a=b", tag: "utm_source", want: "a=b", wantFound: true},
		{name: "encoded fragment key", link: "https://batch.com#UTM%5FSOURCE=x", tag: "utm_source", want: "x", wantFound: true},
		{name: "custom scheme", link: "myapp://open/screen?utm_campaign=c1", tag: "utm_campaign", want: "c1", wantFound: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, found := deeplinkTag(tc.link, tc.tag)
			if found != tc.wantFound || got != tc.want {
				t.Errorf("deeplinkTag(%q, %q) = %q, %v; want %q, %v", tc.link, tc.tag, got, found, tc.want, tc.wantFound)
			}
		})
	}
}

func TestFragmentTag_SkipsUndecodablePairs(t *testing.T) {
	got, found := fragmentTag("utm_source=ok&utm_source=%zz", "utm_source")
	if !found || got != "ok" {
		t.Errorf("fragmentTag() = %q, %v; want ok, true", got, found)
	}
}
