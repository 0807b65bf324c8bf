package renderer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/autopost/builder/testutil"
	"github.com/Kush-Singh-26/autopost/builder/utils"
)

const templatePath = "templates/blog-post-template.html"

func newTestRenderer(t *testing.T, compress bool) (*Renderer, afero.Fs) {
	t.Helper()
	fs := testutil.CreateTestFilesystemWithContent(map[string]string{
		templatePath: testutil.TemplateHTML,
	})
	return New(fs, templatePath, "Pro Truck Logistics", "https://blog.example.com/", compress, utils.DiscardLogger()), fs
}

func TestRender_FillsEveryPlaceholder(t *testing.T) {
	r, _ := newTestRenderer(t, false)
	post := testutil.SamplePost(1700000000)

	out, err := r.Render(post)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	doc := string(out)

	if strings.Contains(doc, "{{") {
		t.Errorf("unreplaced placeholder left in document:\n%s", doc)
	}
	checks := []string{
		"<h1>Diesel Prices Drop for Third Straight Week</h1>",
		"<h2>Relief at the pump</h2>",
		`<span class="tag">Fuel Prices</span>`,
		`src="images/1700000000.png"`,
		"John Smith",
		"https://www.facebook.com/sharer/sharer.php?u=https%3A%2F%2Fblog.example.com%2Fpost-1700000000.html",
		"https://twitter.com/intent/tweet?url=https%3A%2F%2Fblog.example.com%2Fpost-1700000000.html&amp;text=Diesel+Prices+Drop+for+Third+Straight+Week",
		"https://www.linkedin.com/shareArticle?mini=true&amp;url=",
		"mailto:?subject=Diesel%20Prices%20Drop%20for%20Third%20Straight%20Week&amp;body=Check%20out%20this%20article:%20https:%2F%2Fblog.example.com%2Fpost-1700000000.html",
	}
	for _, want := range checks {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestRender_EscapesTextFields(t *testing.T) {
	r, _ := newTestRenderer(t, false)
	post := testutil.SamplePost(1)
	post.Title = `Rates <up> & "volatile"`

	out, err := r.Render(post)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(string(out), "<h1>Rates &lt;up&gt; &amp; &#34;volatile&#34;</h1>") {
		t.Errorf("title not escaped:\n%s", out)
	}
}

func TestRender_DoesNotExpandMarkersInValues(t *testing.T) {
	r, _ := newTestRenderer(t, false)
	post := testutil.SamplePost(1)
	post.Title = "Read {{POST_CONTENT}} twice"

	out, err := r.Render(post)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(string(out), "<h1>Read {{POST_CONTENT}} twice</h1>") {
		t.Errorf("marker inside a value was expanded:\n%s", out)
	}
	if strings.Count(string(out), "<h2>Relief at the pump</h2>") != 1 {
		t.Error("content should appear exactly once")
	}
}

func TestRender_TemplateMissing(t *testing.T) {
	r := New(afero.NewMemMapFs(), templatePath, "Site", "https://x", false, utils.DiscardLogger())

	if _, err := r.Render(testutil.SamplePost(1)); !errors.Is(err, ErrTemplateMissing) {
		t.Errorf("Render error = %v, want ErrTemplateMissing", err)
	}
	if err := r.Check(); !errors.Is(err, ErrTemplateMissing) {
		t.Errorf("Check error = %v, want ErrTemplateMissing", err)
	}
}

func TestRender_ReloadsChangedTemplate(t *testing.T) {
	r, fs := newTestRenderer(t, false)
	if _, err := r.Render(testutil.SamplePost(1)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if err := afero.WriteFile(fs, templatePath, []byte("<p>{{POST_ID}}</p>"), 0644); err != nil {
		t.Fatal(err)
	}
	later := time.Now().Add(time.Minute)
	if err := fs.Chtimes(templatePath, later, later); err != nil {
		t.Fatal(err)
	}

	out, err := r.Render(testutil.SamplePost(42))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if string(out) != "<p>42</p>" {
		t.Errorf("Render = %q, want the edited template", out)
	}
}

func TestRender_Compress(t *testing.T) {
	plain, _ := newTestRenderer(t, false)
	compact, _ := newTestRenderer(t, true)
	post := testutil.SamplePost(7)

	a, err := plain.Render(post)
	if err != nil {
		t.Fatal(err)
	}
	b, err := compact.Render(post)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) >= len(a) {
		t.Errorf("minified document (%d bytes) should be smaller than plain (%d bytes)", len(b), len(a))
	}
	if !strings.Contains(string(b), "Relief at the pump") {
		t.Error("minified document lost its content")
	}
}

func TestPostURL(t *testing.T) {
	r, _ := newTestRenderer(t, false)
	if got := r.PostURL(5); got != "https://blog.example.com/post-5.html" {
		t.Errorf("PostURL = %q", got)
	}
}
