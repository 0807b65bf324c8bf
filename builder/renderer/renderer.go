// Renders posts into the document template and prepares generated bodies
package renderer

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/autopost/builder/models"
	"github.com/Kush-Singh-26/autopost/builder/utils"
)

// ErrTemplateMissing means the document template could not be read.
var ErrTemplateMissing = errors.New("renderer: template missing")

type Renderer struct {
	path     string
	site     string
	baseURL  string
	Compress bool
	cache    *templateCache
	logger   *slog.Logger
}

func New(fs afero.Fs, templatePath, site, baseURL string, compress bool, logger *slog.Logger) *Renderer {
	return &Renderer{
		path:     templatePath,
		site:     site,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		Compress: compress,
		cache:    newTemplateCache(fs),
		logger:   logger,
	}
}

// Check verifies that the template can be read.
func (r *Renderer) Check() error {
	_, err := r.template()
	return err
}

// Render fills the template for post. The only failure is an unreadable
// template.
func (r *Renderer) Render(post *models.Post) ([]byte, error) {
	tmpl, err := r.template()
	if err != nil {
		return nil, err
	}

	buf := utils.SharedBufferPool.Get()
	defer utils.SharedBufferPool.Put(buf)
	if _, err := r.replacer(post).WriteString(buf, tmpl); err != nil {
		return nil, fmt.Errorf("renderer: failed to render post %d: %w", post.ID, err)
	}

	out := bytes.Clone(buf.Bytes())
	// Minify HTML if enabled
	if r.Compress {
		out = utils.MinifyHTML(out)
	}
	r.logger.Debug("rendered post", "id", post.ID, "bytes", len(out))
	return out, nil
}

func (r *Renderer) template() (string, error) {
	tmpl, err := r.cache.get(r.path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrTemplateMissing, r.path, err)
	}
	return tmpl, nil
}

// PostURL is the public address of a post document.
func (r *Renderer) PostURL(id int64) string {
	return fmt.Sprintf("%s/post-%d.html", r.baseURL, id)
}
