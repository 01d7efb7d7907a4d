package botapi

import "testing"

const indexPage = `
<html><body>
<div class="cities">
  <a href="/schedule/kherson/3-1">Kherson — queue 3.1</a>
  <a href="/schedule/kherson/3-2">Kherson — queue 3.2</a>
  <a href="https://other.ua/schedule/q1">Mykolaiv queue 1</a>
  <a href="#top">back to top</a>
  <a href="javascript:void(0)">menu</a>
  <a href="/schedule/kherson/3-1">Kherson — queue 3.1</a>
  <a href="/empty"></a>
</div>
</body></html>`

func TestDiscoverQueues(t *testing.T) {
	links := DiscoverQueues(indexPage, "https://svitlo.ua/index")
	if len(links) != 3 {
		t.Fatalf("want 3 links, got %d: %+v", len(links), links)
	}
	if links[0].URL != "https://svitlo.ua/schedule/kherson/3-1" {
		t.Fatalf("relative href not resolved: %q", links[0].URL)
	}
	if links[0].Name != "Kherson — queue 3.1" {
		t.Fatalf("label wrong: %q", links[0].Name)
	}
	if links[2].URL != "https://other.ua/schedule/q1" {
		t.Fatalf("absolute href mangled: %q", links[2].URL)
	}
}

func TestDiscoverQueues_EmptyPage(t *testing.T) {
	if links := DiscoverQueues("<html><body>no links</body></html>", "https://svitlo.ua"); len(links) != 0 {
		t.Fatalf("want no links, got %+v", links)
	}
}
